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
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCompileCmd() *cobra.Command {
	var (
		out      string
		orchOpts orchestratorOptions
	)

	cmd := &cobra.Command{
		Use:   "compile [constraint-set-file]",
		Short: "Compile a ConstraintSet into its wire schema (stdin if omitted)",
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

			_, wire, err := orch.Compile(context.Background(), set)
			if err != nil {
				return fmt.Errorf("compile: %w", err)
			}

			var decoded map[string]any
			if err := json.Unmarshal(wire, &decoded); err != nil {
				return fmt.Errorf("decode wire schema: %w", err)
			}
			return writeJSON(out, decoded)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "-", "output path for the wire schema JSON (- for stdout)")
	addOrchestratorFlags(cmd.Flags(), &orchOpts)

	return cmd
}

// readCompiledWireSchema is a small shared helper for diff/inspect:
// decodes a file already holding a wire schema document (rather than a
// constraint set) into a generic map for re-marshaling/printing.
func readCompiledWireSchema(path string) (map[string]any, error) {
	var r *os.File
	var err error
	if path == "" || path == "-" {
		r = os.Stdin
	} else {
		r, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", path, err)
		}
		defer r.Close()
	}
	var decoded map[string]any
	if err := json.NewDecoder(r).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode wire schema %q: %w", path, err)
	}
	return decoded, nil
}
