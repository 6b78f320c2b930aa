// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package patterns

import (
	"github.com/AleutianAI/clewbraid/internal/cst"
)

// Scan walks source left to right, testing at each offset the rules
// bucketed under that offset's leading byte and then the catch-all
// bucket, each in catalogue order. The first rule that matches is
// recorded and the scan resumes just past the match, so matches never
// overlap.
func (c *Catalogue) Scan(source string, lang cst.Language) []Match {
	idx, ok := c.rulesFor(lang)
	if !ok {
		return nil
	}

	var matches []Match
	line, col := 1, 0
	for pos := 0; pos < len(source); {
		b := source[pos]
		key := 128
		if b < 128 {
			key = int(b)
		}

		matched := false
		for _, bucket := range [][]compiledRule{idx.buckets[key], idx.buckets[128]} {
			for _, rule := range bucket {
				n, ok := rule.matchLen(source, pos)
				if !ok || n == 0 {
					continue
				}
				startLine, startCol := line, col
				endLine, endCol := advance(source[pos:pos+n], line, col)
				matches = append(matches, Match{
					Rule: rule.Rule,
					Location: cst.Location{
						StartLine: startLine,
						EndLine:   endLine,
						StartCol:  startCol,
						EndCol:    endCol,
					},
					Offset: pos,
					Length: n,
				})
				pos += n
				line, col = endLine, endCol
				matched = true
				break
			}
			if matched {
				break
			}
		}
		if matched {
			continue
		}
		if b == '\n' {
			line++
			col = 0
		} else {
			col++
		}
		pos++
	}
	return matches
}

// advance computes the line/column position after consuming s, starting
// at (line, col).
func advance(s string, line, col int) (int, int) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

// Languages reports every language the catalogue has rules for.
func (c *Catalogue) Languages() []cst.Language {
	out := make([]cst.Language, 0, len(c.byLanguage))
	for l := range c.byLanguage {
		out = append(out, l)
	}
	return out
}

// RuleCount returns the total number of compiled rules across every
// bucket for lang.
func (c *Catalogue) RuleCount(lang cst.Language) int {
	idx, ok := c.rulesFor(lang)
	if !ok {
		return 0
	}
	n := 0
	for _, b := range idx.buckets {
		n += len(b)
	}
	return n
}
