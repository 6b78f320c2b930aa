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
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var (
		language string
		out      string
		timeout  time.Duration
		orchOpts orchestratorOptions
	)

	cmd := &cobra.Command{
		Use:   "extract [source-file]",
		Short: "Mine a ConstraintSet from a source file (stdin if omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if language == "" {
				return fmt.Errorf("--language is required: typescript, javascript, python, rust, go")
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			r, closeIn, err := openInput(path)
			if err != nil {
				return err
			}
			defer closeIn()
			source, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}

			orch, closeOrch, err := buildOrchestrator(orchOpts)
			if err != nil {
				return err
			}
			defer closeOrch()

			ctx := context.Background()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			set, err := orch.Extract(ctx, source, language)
			if err != nil {
				return fmt.Errorf("extract: %w", err)
			}

			return writeConstraintSet(out, set)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "source language: typescript, javascript, python, rust, go")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output path for the extracted ConstraintSet JSON (- for stdout)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "parse timeout (0 = no deadline)")
	addOrchestratorFlags(cmd.Flags(), &orchOpts)
	cmd.Flags().IntVar(&orchOpts.maxSourceBytes, "max-bytes", 0, "reject source larger than this many bytes (0 = 10MiB default)")

	return cmd
}
