// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command clewbraid is the CLI front end for the Extractor/Compiler
// module: extract mines constraints from a source file, compile turns
// a constraint set into its wire schema, diff compares two compiled
// wire schemas, inspect browses a compiled ConstraintIR interactively,
// and serve runs the orchestrator's debug HTTP/websocket surface.
//
// This command is deliberately thin: everything it does is a direct
// call into internal/orchestrator, internal/compiler, or internal/tui.
// It is the minimal entry point that exercises those packages, not part
// of the module's own extraction/compilation surface.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/AleutianAI/clewbraid/internal/logging"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	traceToStdout bool
	logLevel      string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clewbraid",
		Short:         "Mine source constraints and compile them into a constrained-decoding IR",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureLogging()
			if traceToStdout {
				shutdown, err := enableStdoutTracing()
				if err != nil {
					return fmt.Errorf("clewbraid: enable tracing: %w", err)
				}
				cmd.Root().PersistentPostRunE = func(*cobra.Command, []string) error {
					return shutdown(cmd.Context())
				}
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&traceToStdout, "trace", false, "print OpenTelemetry spans to stderr")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newExtractCmd())
	root.AddCommand(newCompileCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newServeCmd())

	return root
}

func configureLogging() {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	// A plain text handler on stderr keeps stdout clean for piped JSON
	// output (extract/compile write their result to stdout).
	logger := slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
	slog.SetDefault(logger)
	logging.SetDefault(logger)
}

// isTTY reports whether stdout is an interactive terminal, used to
// decide whether the inspect command launches its bubbletea browser or
// falls back to a plain JSON dump.
func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
