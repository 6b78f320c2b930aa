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
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/AleutianAI/clewbraid/internal/graph"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// upgrader is a thin alias so server.go does not need to import
// gorilla/websocket directly.
type upgrader = websocket.Upgrader

func newUpgrader() upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		// The debug server is a local inspection tool, not a public
		// endpoint; any origin connecting to it is already on the
		// machine or network the operator controls.
		CheckOrigin: func(r *http.Request) bool { return true },
	}
}

// CompileProgress is the event streamed to a connected client as a
// compile progresses. It reuses internal/graph's BuildProgress shape
// directly rather than duplicating phase/counter fields.
type CompileProgress = graph.BuildProgress

type progressEvent struct {
	Event    string           `json:"event"`
	Progress *CompileProgress `json:"progress,omitempty"`
	Error    *ErrorResponse   `json:"error,omitempty"`
	Result   map[string]any   `json:"result,omitempty"`
}

// HandleCompileStream handles GET /v1/compile/stream: the client sends
// one CompileRequest as the first text message, then receives a
// sequence of progressEvent messages as the compile runs, ending with
// either a "done" event carrying the wire schema or an "error" event.
func (s *Server) HandleCompileStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WarnContext(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var req CompileRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.writeWSError(conn, "invalid request", constraint.Code(constraint.ErrInvalidInput))
		return
	}
	set := req.toSet()

	report := func(p graph.BuildProgress) {
		if err := conn.WriteJSON(progressEvent{Event: "progress", Progress: &p}); err != nil {
			slog.Warn("websocket progress write failed", "error", err)
		}
	}
	// BuildWithProgress is run directly (rather than through
	// compiler.Compile) so the client sees phase-by-phase events. It
	// runs before conflict resolution, so this graph can still hold
	// constraints that Recompile then disables; the graph is discarded.
	_ = graph.BuildWithProgress(set.Enabled(), report)

	_, wire, err := s.orch.Recompile(set)
	if err != nil {
		s.writeWSError(conn, "compile failed", constraint.Code(err))
		return
	}

	var decoded map[string]any
	if err := json.Unmarshal(wire, &decoded); err != nil {
		s.writeWSError(conn, "wire schema encoding failed", constraint.Code(constraint.ErrAllocationFailure))
		return
	}
	if err := conn.WriteJSON(progressEvent{Event: "done", Result: decoded}); err != nil {
		slog.Warn("websocket done write failed", "error", err)
	}
}

func (s *Server) writeWSError(conn *websocket.Conn, message, code string) {
	if err := conn.WriteJSON(progressEvent{Event: "error", Error: &ErrorResponse{Error: message, Code: code}}); err != nil {
		slog.Warn("websocket error write failed", "error", err)
	}
}
