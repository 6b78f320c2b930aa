// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package patterns implements the static, per-language pattern engine:
// substring and regex rules mapped to constraint kinds, indexed by
// leading byte so a scan never tests every rule at every offset.
package patterns

import (
	"regexp"

	"github.com/AleutianAI/clewbraid/internal/cst"
)

// Rule is one catalogue entry: either a literal substring or, when
// Regex is non-empty, a compiled pattern anchored at the match start.
type Rule struct {
	Pattern     string
	Regex       string
	Kind        string
	Description string
}

// compiledRule is a Rule plus its pre-compiled regexp, built once at
// catalogue-load time so matching never compiles a pattern mid-scan.
type compiledRule struct {
	Rule
	re *regexp.Regexp
}

func (r compiledRule) matchLen(s string, pos int) (int, bool) {
	if r.re != nil {
		loc := r.re.FindStringIndex(s[pos:])
		if loc == nil || loc[0] != 0 {
			return 0, false
		}
		return loc[1], true
	}
	n := len(r.Pattern)
	if pos+n > len(s) || s[pos:pos+n] != r.Pattern {
		return 0, false
	}
	return n, true
}

// Match is one pattern-engine hit.
type Match struct {
	Rule     Rule
	Location cst.Location
	Offset   int
	Length   int
}
