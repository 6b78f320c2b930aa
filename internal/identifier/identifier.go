// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package identifier implements stage 2 of the extraction pipeline:
// turning the named declarations a cst.ParseResult already found into
// syntactic constraints (every declared name becomes a naming-
// convention constraint candidate, checked later against the pattern
// pool's casing rules).
package identifier

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/AleutianAI/clewbraid/internal/cst"
	"github.com/AleutianAI/clewbraid/internal/sanitizer"
)

// declarationKindName labels a cst.SymbolKind for constraint
// descriptions; kept separate from cst.SymbolKind.String() because the
// wording here is user-facing prose, not an internal enum name.
var declarationKindName = map[cst.SymbolKind]string{
	cst.SymbolKindFunction:  "function",
	cst.SymbolKindMethod:    "method",
	cst.SymbolKindClass:     "class",
	cst.SymbolKindInterface: "interface",
	cst.SymbolKindType:      "type",
	cst.SymbolKindVariable:  "variable",
	cst.SymbolKindConstant:  "constant",
}

// NamedDeclaration pairs a symbol with the kind label used to build its
// constraint description.
type NamedDeclaration struct {
	Symbol *cst.Symbol
	Label  string
}

// Extract returns a NamedDeclaration for every symbol in result whose
// kind identifier extraction covers (every kind except import, which
// the pattern/graph stages treat separately as a dependency, not a
// naming constraint).
func Extract(result *cst.ParseResult) []NamedDeclaration {
	decls := make([]NamedDeclaration, 0, len(result.Symbols))
	for _, sym := range result.Symbols {
		label, ok := declarationKindName[sym.Kind]
		if !ok {
			continue
		}
		decls = append(decls, NamedDeclaration{Symbol: sym, Label: label})
	}
	return decls
}

// ToConstraints converts each declaration into a syntactic Constraint
// naming the declared identifier, sourced from Identifier extraction.
// A declaration whose name is empty is skipped rather than failing the
// whole call, matching the local recovery
// policy for per-node identifier-extraction failures.
func ToConstraints(decls []NamedDeclaration) []constraint.Constraint {
	out := make([]constraint.Constraint, 0, len(decls))
	for _, d := range decls {
		if d.Symbol.Name == "" {
			continue
		}
		name := sanitizer.Name(d.Symbol.Name)
		desc := sanitizer.Description(fmt.Sprintf("%s %q declared at line %d", d.Label, d.Symbol.Name, d.Symbol.Location.StartLine))
		c := constraint.NewConstraint(name, desc, constraint.KindSyntactic, constraint.SourceIdentifier, constraint.SeverityInfo)
		c.OriginFile = ""
		c.OriginLine = d.Symbol.Location.StartLine
		c.Frequency = 1
		out = append(out, c)

		if shaped := shapeText(d.Symbol); shaped != "" {
			tc := constraint.NewConstraint(name, sanitizer.Description(shaped), constraint.KindTypeSafety, constraint.SourceIdentifier, constraint.SeverityInfo)
			tc.OriginLine = d.Symbol.Location.StartLine
			tc.Frequency = 1
			out = append(out, tc)
		}
	}
	return out
}

// shapeText returns the declaration text of a type-like symbol when it
// has a shape the schema builder's description grammar can parse (an
// interface declaration or an object literal), or "" otherwise. Struct
// and trait bodies in other syntaxes carry no property:type structure
// the grammar recognizes, so they stay identifier-only.
func shapeText(sym *cst.Symbol) string {
	if sym.Kind != cst.SymbolKindInterface && sym.Kind != cst.SymbolKindType {
		return ""
	}
	t := sym.Text
	if strings.HasPrefix(t, "interface ") && strings.HasSuffix(t, "}") {
		return t
	}
	if strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") {
		return t
	}
	return ""
}
