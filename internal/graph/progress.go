// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import "github.com/AleutianAI/clewbraid/internal/constraint"

// BuildPhase indicates which phase of graph construction is in
// progress.
type BuildPhase int

const (
	// BuildPhaseCollecting indicates constraints are being added as nodes.
	BuildPhaseCollecting BuildPhase = iota

	// BuildPhaseWiringEdges indicates kind-dependency edges are being added.
	BuildPhaseWiringEdges

	// BuildPhaseOrdering indicates the topological sort is running.
	BuildPhaseOrdering
)

func (p BuildPhase) String() string {
	switch p {
	case BuildPhaseCollecting:
		return "collecting"
	case BuildPhaseWiringEdges:
		return "wiring_edges"
	case BuildPhaseOrdering:
		return "ordering"
	default:
		return "unknown"
	}
}

// BuildProgress reports progress during BuildWithProgress.
type BuildProgress struct {
	Phase     BuildPhase
	Processed int
	Total     int
}

// ProgressFunc receives BuildProgress events. It must return quickly;
// BuildWithProgress calls it synchronously from the building goroutine.
type ProgressFunc func(BuildProgress)

// BuildWithProgress is Build, additionally reporting progress through
// report: collecting before Build runs, then wiring_edges and ordering
// together once it returns. It does not itself run the topological
// sort. report may be nil.
func BuildWithProgress(constraints []constraint.Constraint, report ProgressFunc) *ConstraintGraph {
	if report != nil {
		report(BuildProgress{Phase: BuildPhaseCollecting, Processed: 0, Total: len(constraints)})
	}
	g := Build(constraints)
	if report != nil {
		report(BuildProgress{Phase: BuildPhaseWiringEdges, Processed: len(constraints), Total: len(constraints)})
		report(BuildProgress{Phase: BuildPhaseOrdering, Processed: len(constraints), Total: len(constraints)})
	}
	return g
}
