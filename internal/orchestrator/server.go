// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package orchestrator

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelgin "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Server is the orchestrator's debug HTTP/websocket surface: health,
// metrics, extract, compile, and a websocket that streams compile
// progress events to a connected client.
type Server struct {
	orch     *Orchestrator
	metrics  *Metrics
	engine   *gin.Engine
	upgrader upgrader
	log      *slog.Logger
}

// ServerOption configures a Server at construction.
type ServerOption func(*Server)

// WithMetrics attaches a Metrics instance, exposing /metrics.
// Without one, /metrics responds 404.
func WithMetrics(m *Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithServerLogger overrides the server's diagnostic logger.
func WithServerLogger(log *slog.Logger) ServerOption {
	return func(s *Server) { s.log = log }
}

// NewServer builds a Server around orch. It does not set gin's mode:
// gin reads GIN_MODE itself and runs in debug mode when it is unset.
func NewServer(orch *Orchestrator, opts ...ServerOption) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware("clewbraid"))

	s := &Server{orch: orch, engine: engine, log: slog.Default(), upgrader: newUpgrader()}
	for _, opt := range opts {
		opt(s)
	}

	engine.GET("/healthz", s.HandleHealth)
	if s.metrics != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	v1 := engine.Group("/v1")
	{
		v1.POST("/extract", s.HandleExtract)
		v1.POST("/compile", s.HandleCompile)
		v1.GET("/compile/stream", s.HandleCompileStream)
	}
	return s
}

// Handler returns the server's http.Handler, for embedding in a
// caller-managed *http.Server. cmd/clewbraid's serve command uses Run
// instead.
func (s *Server) Handler() http.Handler { return s.engine }

// Run starts an HTTP server on addr and blocks until ctx is canceled
// or ListenAndServe returns a non-shutdown error.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return httpServer.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
