// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package compiler

import "encoding/json"

// wireSchema is the stable text serialization shape exposed to external
// consumers. Field order here is the wire order; encoding/json marshals
// struct fields in declaration order, so no custom marshaler is needed
// at this level, unlike Schema.
type wireSchema struct {
	Type       string          `json:"type"`
	Version    string          `json:"version"`
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
	Grammar    json.RawMessage `json:"grammar,omitempty"`
	Patterns   []string        `json:"patterns,omitempty"`
	TokenMasks json.RawMessage `json:"token_masks,omitempty"`
	Priority   uint32          `json:"priority"`
}

const wireVersion = "1.0"

// ToWireSchema serializes ir into the stable wire schema shape. Absent
// optional fields are omitted entirely rather than emitted as null.
func ToWireSchema(ir *ConstraintIR) ([]byte, error) {
	w := wireSchema{Type: "guidance", Version: wireVersion, Priority: ir.Priority}

	if ir.JSONSchema != nil {
		b, err := json.Marshal(ir.JSONSchema)
		if err != nil {
			return nil, err
		}
		w.JSONSchema = b
	}
	if ir.Grammar != nil {
		b, err := json.Marshal(ir.Grammar)
		if err != nil {
			return nil, err
		}
		w.Grammar = b
	}
	if len(ir.Patterns) > 0 {
		w.Patterns = ir.Patterns
	}
	if ir.TokenMask != nil && (len(ir.TokenMask.AllowedTokens) > 0 || len(ir.TokenMask.ForbiddenTokens) > 0) {
		b, err := json.Marshal(ir.TokenMask)
		if err != nil {
			return nil, err
		}
		w.TokenMasks = b
	}

	return json.Marshal(w)
}
