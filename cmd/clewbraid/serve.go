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
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/AleutianAI/clewbraid/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		metrics  bool
		orchOpts orchestratorOptions
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the orchestrator's debug HTTP/websocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, closeOrch, err := buildOrchestrator(orchOpts)
			if err != nil {
				return err
			}
			defer closeOrch()

			var serverOpts []orchestrator.ServerOption
			if metrics {
				m, err := orchestrator.NewMetrics()
				if err != nil {
					return fmt.Errorf("new metrics: %w", err)
				}
				defer m.Shutdown(context.Background())
				serverOpts = append(serverOpts, orchestrator.WithMetrics(m))
			}

			server := orchestrator.NewServer(orch, serverOpts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("clewbraid serve: listening", "addr", addr, "metrics", metrics)
			if err := server.Run(ctx, addr); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8085", "address to listen on")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "expose /metrics via the otel Prometheus exporter")
	addOrchestratorFlags(cmd.Flags(), &orchOpts)

	return cmd
}
