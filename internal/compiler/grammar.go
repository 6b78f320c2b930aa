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

// GrammarRule is one production: a name and its deduplicated literal
// alternatives.
type GrammarRule struct {
	Name     string   `json:"name"`
	Literals []string `json:"literals"`
}

// Grammar is the emitted grammar fragment. Its field order is fixed by
// declaration, so encoding/json already emits it deterministically
// without a custom marshaler.
type Grammar struct {
	Start string        `json:"start"`
	Rules []GrammarRule `json:"rules"`
}

// BuildGrammar emits one rule per enabled syntactic constraint, in
// order, with literals deduplicated through in. Start symbol defaults
// to "program". Returns nil if constraints contains no syntactic
// constraints.
func BuildGrammar(constraints []constraint.Constraint, in *interner.Interner) *Grammar {
	var rules []GrammarRule
	for _, c := range constraints {
		if c.Kind != constraint.KindSyntactic {
			continue
		}
		lit := in.Intern(c.Name)
		rules = append(rules, GrammarRule{Name: c.Name, Literals: []string{lit}})
	}
	if len(rules) == 0 {
		return nil
	}
	return &Grammar{Start: "program", Rules: rules}
}
