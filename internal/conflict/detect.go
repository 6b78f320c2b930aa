// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package conflict

import "github.com/AleutianAI/clewbraid/internal/constraint"

// Conflict is one detected pair of mutually exclusive, enabled
// constraints, identified by their index into the ConstraintSet passed
// to Detect.
type Conflict struct {
	AIndex, BIndex int
}

// Detect partitions set's enabled constraints by kind and, within each
// bucket, enumerates unordered pairs testing cfg's conflicts(a,b)
// predicate. Conflicts across different kinds are never reported; they
// are considered absent by default.
func Detect(set *constraint.ConstraintSet, cfg Config) []Conflict {
	byKind := make(map[constraint.Kind][]int)
	for i, c := range set.Constraints {
		if !c.Enabled {
			continue
		}
		byKind[c.Kind] = append(byKind[c.Kind], i)
	}

	var conflicts []Conflict
	for _, indices := range byKind {
		for x := 0; x < len(indices); x++ {
			for y := x + 1; y < len(indices); y++ {
				a, b := indices[x], indices[y]
				if cfg.conflictsByName(set.Constraints[a].Name, set.Constraints[b].Name) {
					conflicts = append(conflicts, Conflict{AIndex: a, BIndex: b})
				}
			}
		}
	}
	return conflicts
}
