// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"

	"github.com/AleutianAI/clewbraid/internal/tui"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var (
		noTUI    bool
		orchOpts orchestratorOptions
	)

	cmd := &cobra.Command{
		Use:   "inspect [constraint-set-file]",
		Short: "Browse a compiled ConstraintIR's topological order (stdin if omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			set, err := loadConstraintSet(path)
			if err != nil {
				return err
			}

			orch, closeOrch, err := buildOrchestrator(orchOpts)
			if err != nil {
				return err
			}
			defer closeOrch()

			ir, _, err := orch.Recompile(set)
			if err != nil {
				return fmt.Errorf("compile: %w", err)
			}

			if noTUI || !isTTY() {
				preview, err := tui.WireSchemaPreview(ir)
				if err != nil {
					return fmt.Errorf("render wire schema preview: %w", err)
				}
				fmt.Println(preview)
				return nil
			}

			if len(ir.Order) == 0 {
				fmt.Println("constraint set has no enabled constraints; nothing to browse")
				return nil
			}

			launch := true
			if err := huh.NewForm(huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Open %q (%d constraints) in the interactive browser?", set.Name, len(ir.Order))).
					Affirmative("Browse").
					Negative("Print JSON instead").
					Value(&launch),
			)).Run(); err != nil {
				return fmt.Errorf("confirm prompt: %w", err)
			}

			if !launch {
				preview, err := tui.WireSchemaPreview(ir)
				if err != nil {
					return fmt.Errorf("render wire schema preview: %w", err)
				}
				fmt.Println(preview)
				return nil
			}

			return tui.Run(set.Name, ir)
		},
	}

	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "skip the interactive browser and print the wire schema instead")
	addOrchestratorFlags(cmd.Flags(), &orchOpts)

	return cmd
}
