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

import (
	"testing"

	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mk(name string, kind constraint.Kind) constraint.Constraint {
	c := constraint.NewConstraint(name, "", kind, constraint.SourceASTPattern, constraint.SeverityInfo)
	return c
}

func TestTopologicalOrderRespectsKindDependencies(t *testing.T) {
	sem := mk("sem", constraint.KindSemantic)
	ts := mk("ts", constraint.KindTypeSafety)
	syn := mk("syn", constraint.KindSyntactic)

	g := Build([]constraint.Constraint{sem, ts, syn})
	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)

	pos := make(map[string]int, 3)
	for rank, idx := range order {
		pos[g.Node(idx).Name] = rank
	}
	assert.Less(t, pos["syn"], pos["ts"])
	assert.Less(t, pos["ts"], pos["sem"])
}

func TestTopologicalOrderIsDeterministic(t *testing.T) {
	a := mk("a", constraint.KindSyntactic)
	b := mk("b", constraint.KindSyntactic)
	c := mk("c", constraint.KindSyntactic)

	g := Build([]constraint.Constraint{a, b, c})
	order1, err := g.TopologicalOrder()
	require.NoError(t, err)
	order2, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, order1, order2)
	assert.Equal(t, []int{0, 1, 2}, order1)
}

// TestCyclicGraphScenario: a graph assembled with an artificial a->b->a
// cycle is rejected with a CyclicDependencyError naming both nodes
// rather than silently dropping them.
func TestCyclicGraphScenario(t *testing.T) {
	a := mk("a", constraint.KindSyntactic)
	b := mk("b", constraint.KindSyntactic)
	g := Build([]constraint.Constraint{a, b})
	// Force a cycle: a depends on b, b depends on a.
	g.edges[0] = []int{1}
	g.edges[1] = []int{0}

	_, err := g.TopologicalOrder()
	require.Error(t, err)
	var cycErr *CyclicDependencyError
	require.ErrorAs(t, err, &cycErr)
	assert.ElementsMatch(t, []string{"a", "b"}, cycErr.Names)

	cycle := g.DetectCycle()
	assert.NotEmpty(t, cycle)
}

func TestDetectCycleReturnsNilForAcyclicGraph(t *testing.T) {
	a := mk("a", constraint.KindSyntactic)
	b := mk("b", constraint.KindTypeSafety)
	g := Build([]constraint.Constraint{a, b})
	assert.Nil(t, g.DetectCycle())
}

func TestBuildWithProgressReportsPhases(t *testing.T) {
	a := mk("a", constraint.KindSyntactic)
	var phases []BuildPhase
	g := BuildWithProgress([]constraint.Constraint{a}, func(p BuildProgress) {
		phases = append(phases, p.Phase)
	})
	require.NotNil(t, g)
	assert.Equal(t, []BuildPhase{BuildPhaseCollecting, BuildPhaseWiringEdges, BuildPhaseOrdering}, phases)
}
