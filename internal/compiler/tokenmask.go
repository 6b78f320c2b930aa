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

import "github.com/AleutianAI/clewbraid/internal/constraint"

// tokenFamily groups a named class of forbidden substrings, the same
// shape as the ordered pattern/label list the redaction helper draws
// from: a package-level, immutable, never-mutated-after-init slice.
type tokenFamily struct {
	Name   string
	Tokens []string
}

// canonicalForbiddenTokens is the 15-pattern, four-family forbidden
// token list: SQL-injection keywords, command-injection symbols,
// credential substrings, URL/path prefixes. Order is preserved on
// emission.
var canonicalForbiddenTokens = []tokenFamily{
	{
		Name:   "sql_injection",
		Tokens: []string{"UNION SELECT", "OR 1=1", "DROP TABLE", "--"},
	},
	{
		Name:   "command_injection",
		Tokens: []string{"; rm -rf", "&& curl", "| sh", "$("},
	},
	{
		Name:   "credential",
		Tokens: []string{"password=", "api_key=", "Bearer ", "sk-"},
	},
	{
		Name:   "url_path",
		Tokens: []string{"file://", "../../../", "http://169.254.169.254/"},
	},
}

// TokenMask is the emitted token-mask fragment.
type TokenMask struct {
	AllowedTokens   []string `json:"allowed_tokens,omitempty"`
	ForbiddenTokens []string `json:"forbidden_tokens,omitempty"`
}

// BuildTokenMask returns the canonical forbidden-token list when
// constraints contains at least one enabled security constraint, or nil
// otherwise. Which specific security constraint triggered emission does
// not change the mask: the 15 patterns are aggregated unconditionally
// once any are enabled.
func BuildTokenMask(constraints []constraint.Constraint) *TokenMask {
	hasSecurity := false
	for _, c := range constraints {
		if c.Kind == constraint.KindSecurity {
			hasSecurity = true
			break
		}
	}
	if !hasSecurity {
		return nil
	}

	var forbidden []string
	for _, fam := range canonicalForbiddenTokens {
		forbidden = append(forbidden, fam.Tokens...)
	}
	return &TokenMask{ForbiddenTokens: forbidden}
}
