// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tui implements `clewbraid inspect`'s interactive browser: a
// list of a compiled ConstraintGraph's topological order on the left,
// and a detail pane on the right showing the selected constraint plus
// which IR fragment it fed.
package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AleutianAI/clewbraid/internal/compiler"
	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// item adapts a constraint.Constraint to bubbles/list's Item interface.
type item struct {
	c constraint.Constraint
}

func (i item) Title() string {
	return fmt.Sprintf("[%s] %s", i.c.Severity, i.c.Name)
}

func (i item) Description() string {
	return fmt.Sprintf("%s · %s · priority=%d", i.c.Kind, i.c.Source, i.c.Priority)
}

func (i item) FilterValue() string { return i.c.Name }

// Model is the bubbletea model driving the inspect TUI.
type Model struct {
	list     list.Model
	viewport viewport.Model
	styles   Styles
	ir       *compiler.ConstraintIR
	setName  string
	ready    bool
}

// New builds an inspect Model over a compiled ConstraintIR. setName
// names the ConstraintSet the IR was compiled from, shown in the
// header.
func New(setName string, ir *compiler.ConstraintIR) Model {
	items := make([]list.Item, len(ir.Order))
	for i, c := range ir.Order {
		items[i] = item{c: c}
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 0, 0)
	l.Title = fmt.Sprintf("%s — topological order (%d enabled)", setName, len(ir.Order))
	l.SetShowHelp(true)

	return Model{
		list:     l,
		viewport: viewport.New(0, 0),
		styles:   DefaultStyles(),
		ir:       ir,
		setName:  setName,
	}
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 3
		listWidth := msg.Width / 3
		m.list.SetSize(listWidth, msg.Height-headerHeight)
		m.viewport.Width = msg.Width - listWidth - 4
		m.viewport.Height = msg.Height - headerHeight
		m.ready = true
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	prevIndex := m.list.Index()
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	if m.list.Index() != prevIndex {
		m.refreshDetail()
	}
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) refreshDetail() {
	selected, ok := m.list.SelectedItem().(item)
	if !ok {
		m.viewport.SetContent("")
		return
	}
	c := selected.c

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", severityStyle(m.styles, c.Severity.String()).Render(strings.ToUpper(c.Severity.String())))
	fmt.Fprintf(&sb, "Name:        %s\n", c.Name)
	fmt.Fprintf(&sb, "Kind:        %s\n", c.Kind)
	fmt.Fprintf(&sb, "Source:      %s\n", c.Source)
	fmt.Fprintf(&sb, "Confidence:  %.2f\n", c.Confidence)
	fmt.Fprintf(&sb, "Frequency:   %d\n", c.Frequency)
	fmt.Fprintf(&sb, "Enabled:     %t\n", c.Enabled)
	if c.OriginFile != "" {
		fmt.Fprintf(&sb, "Origin:      %s:%d\n", c.OriginFile, c.OriginLine)
	}
	sb.WriteString("\nDescription:\n")
	sb.WriteString(c.Description)
	sb.WriteString("\n\nContributes to:\n")
	sb.WriteString(contributesTo(c, m.ir))

	m.viewport.SetContent(sb.String())
}

// contributesTo reports which IR fragment(s) this constraint's kind
// feeds, mirroring the compiler's own emission rules: type_safety ->
// json_schema, syntactic -> grammar, security -> token_masks, semantic
// -> hole_specs; AST_Pattern-sourced constraints also contribute a
// regex pattern.
func contributesTo(c constraint.Constraint, ir *compiler.ConstraintIR) string {
	var parts []string
	switch c.Kind {
	case constraint.KindTypeSafety:
		if ir.JSONSchema != nil {
			parts = append(parts, "json_schema")
		}
	case constraint.KindSyntactic:
		if ir.Grammar != nil {
			parts = append(parts, "grammar")
		}
	case constraint.KindSecurity:
		if ir.TokenMask != nil {
			parts = append(parts, "token_masks")
		}
	case constraint.KindSemantic:
		if len(ir.HoleSpecs) > 0 {
			parts = append(parts, "hole_specs")
		}
	}
	if c.Source == constraint.SourceASTPattern && len(ir.Patterns) > 0 {
		parts = append(parts, "patterns")
	}
	if len(parts) == 0 {
		return "(none — disabled or not part of an emission rule)"
	}
	return strings.Join(parts, ", ")
}

// View satisfies tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}
	header := m.styles.Header.Render(fmt.Sprintf("clewbraid inspect — priority=%d", m.ir.Priority))
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.List.Render(m.list.View()),
		m.styles.Detail.Render(m.viewport.View()),
	)
	footer := m.styles.Footer.Render("↑/↓ select · / filter · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Run launches the inspect TUI over ir, blocking until the user quits.
func Run(setName string, ir *compiler.ConstraintIR) error {
	p := tea.NewProgram(New(setName, ir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// WireSchemaPreview renders ir's wire schema as indented JSON, used by
// callers that want a one-shot text dump instead of the interactive
// browser (e.g. `clewbraid inspect --no-tui`).
func WireSchemaPreview(ir *compiler.ConstraintIR) (string, error) {
	wire, err := compiler.ToWireSchema(ir)
	if err != nil {
		return "", err
	}
	var decoded map[string]any
	if err := json.Unmarshal(wire, &decoded); err != nil {
		return "", err
	}
	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return "", err
	}
	return string(pretty), nil
}
