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

import (
	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/AleutianAI/clewbraid/internal/interner"
)

// BuildPatterns emits the static regex pool, in its fixed order, plus
// one rule-provided pattern per enabled constraint (of any kind) mined
// by the pattern engine. AST_Pattern-sourced constraints are the only ones
// carrying a literal the pattern engine actually matched on; their
// sanitized description doubles as that literal, since the original
// compiled regexp is not retained past extraction.
func BuildPatterns(constraints []constraint.Constraint) []string {
	patterns := make([]string, 0, len(interner.StaticRegexPool))
	for _, r := range interner.StaticRegexPool {
		patterns = append(patterns, r.Pattern)
	}
	for _, c := range constraints {
		if c.Source == constraint.SourceASTPattern && c.Description != "" {
			patterns = append(patterns, c.Description)
		}
	}
	return patterns
}
