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
	"github.com/gin-gonic/gin"
)

// HandleHealth handles GET /healthz.
func (s *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleExtract handles POST /v1/extract.
func (s *Server) HandleExtract(c *gin.Context) {
	logger := slog.With("handler", "HandleExtract")

	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: constraint.Code(constraint.ErrInvalidInput)})
		return
	}

	set, err := s.orch.Extract(c.Request.Context(), []byte(req.Source), req.Language)
	if s.metrics != nil {
		s.metrics.recordExtract(c.Request.Context(), err == nil)
	}
	if err != nil {
		logger.WarnContext(c.Request.Context(), "extract failed", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "extraction failed", Code: constraint.Code(err)})
		return
	}
	c.JSON(http.StatusOK, ExtractResponse{Constraints: set.Constraints})
}

// HandleCompile handles POST /v1/compile.
func (s *Server) HandleCompile(c *gin.Context) {
	logger := slog.With("handler", "HandleCompile")

	var req CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: constraint.Code(constraint.ErrInvalidInput)})
		return
	}

	_, wire, err := s.orch.Compile(c.Request.Context(), req.toSet())
	if s.metrics != nil {
		s.metrics.recordCompile(c.Request.Context(), err == nil)
	}
	if err != nil {
		logger.WarnContext(c.Request.Context(), "compile failed", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "compile failed", Code: constraint.Code(err)})
		return
	}

	var decoded map[string]any
	if err := json.Unmarshal(wire, &decoded); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "wire schema encoding failed", Code: constraint.Code(constraint.ErrAllocationFailure)})
		return
	}
	c.JSON(http.StatusOK, CompileResponse{WireSchema: decoded})
}
