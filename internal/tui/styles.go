// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles shared by the inspect TUI's panes.
type Styles struct {
	Header   lipgloss.Style
	Footer   lipgloss.Style
	List     lipgloss.Style
	Detail   lipgloss.Style
	Disabled lipgloss.Style
	Hint     lipgloss.Style
	Info     lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
}

var (
	colorAccent  = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("#6c7a89")
	colorHint    = lipgloss.Color("#2196F3")
	colorInfo    = lipgloss.Color("#64b5f6")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#e53935")
	colorBorder  = lipgloss.Color("#3a4a5e")
)

// DefaultStyles builds the fixed style set used throughout the inspect
// TUI. There is no light/dark detection here: the debug server and the
// inspect command are local developer tools, not a themeable product
// surface.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(lipgloss.Color("#101F38")).
			Foreground(colorAccent),
		Footer: lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1),
		List: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		Disabled: lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true),
		Hint:     lipgloss.NewStyle().Foreground(colorHint),
		Info:     lipgloss.NewStyle().Foreground(colorInfo),
		Warning:  lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(colorError).Bold(true),
	}
}

func severityStyle(s Styles, sev string) lipgloss.Style {
	switch sev {
	case "hint":
		return s.Hint
	case "info":
		return s.Info
	case "warning":
		return s.Warning
	case "error":
		return s.Error
	default:
		return lipgloss.NewStyle()
	}
}
