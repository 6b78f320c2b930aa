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

import "github.com/AleutianAI/clewbraid/internal/constraint"

// ErrorResponse is the debug server's uniform error body: a sanitized
// message plus the stable taxonomy code.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ExtractRequest is the POST /v1/extract body.
type ExtractRequest struct {
	Source   string `json:"source"`
	Language string `json:"language"`
}

// ExtractResponse is the POST /v1/extract response.
type ExtractResponse struct {
	Constraints []constraint.Constraint `json:"constraints"`
}

// CompileRequest is the POST /v1/compile body: the constraint set to
// compile, named for a clearer request log line.
type CompileRequest struct {
	Name        string                  `json:"name"`
	Constraints []constraint.Constraint `json:"constraints"`
}

func (r CompileRequest) toSet() *constraint.ConstraintSet {
	set := constraint.NewConstraintSet(r.Name)
	set.Constraints = r.Constraints
	return set
}

// CompileResponse is the POST /v1/compile response: the raw wire
// schema bytes, inlined as JSON.
type CompileResponse struct {
	WireSchema map[string]any `json:"wire_schema"`
}
