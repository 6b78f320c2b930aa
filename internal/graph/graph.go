// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph builds the constraint dependency graph: one node per
// enabled constraint, edges from a fixed kind-dependency table, a
// deterministic topological order via Kahn's algorithm, and cycle
// diagnostics via DFS coloring.
package graph

import (
	"fmt"

	"github.com/AleutianAI/clewbraid/internal/constraint"
)

// dependsOn is the fixed kind-dependency table: a constraint of kind K
// depends on every enabled constraint whose kind appears in
// dependsOn[K]. type_safety depends on syntactic; semantic depends on
// type_safety.
var dependsOn = map[constraint.Kind][]constraint.Kind{
	constraint.KindTypeSafety: {constraint.KindSyntactic},
	constraint.KindSemantic:   {constraint.KindTypeSafety},
}

// ConstraintGraph is the adjacency-list dependency graph over a set of
// constraints. Edge (a -> b) means a depends on b: b must be ordered
// before a in any valid topological order.
type ConstraintGraph struct {
	nodes []constraint.Constraint
	index map[string]int // constraint ID -> node index
	edges [][]int        // edges[i] = indices this node depends on
}

// Build constructs a ConstraintGraph from constraints, wiring edges per
// the kind-dependency table between every pair of distinct kinds it
// names (an edge runs from every constraint of the dependent kind to
// every constraint of the depended-upon kind).
func Build(constraints []constraint.Constraint) *ConstraintGraph {
	g := &ConstraintGraph{
		nodes: constraints,
		index: make(map[string]int, len(constraints)),
		edges: make([][]int, len(constraints)),
	}
	for i, c := range constraints {
		g.index[c.ID] = i
	}

	byKind := make(map[constraint.Kind][]int)
	for i, c := range constraints {
		byKind[c.Kind] = append(byKind[c.Kind], i)
	}

	for i, c := range constraints {
		for _, depKind := range dependsOn[c.Kind] {
			for _, j := range byKind[depKind] {
				if j != i {
					g.edges[i] = append(g.edges[i], j)
				}
			}
		}
	}
	return g
}

// Len returns the number of nodes in the graph.
func (g *ConstraintGraph) Len() int { return len(g.nodes) }

// Node returns the constraint at index i.
func (g *ConstraintGraph) Node(i int) constraint.Constraint { return g.nodes[i] }

// CyclicDependencyError reports a dependency cycle found during
// topological sort, naming the offending constraints.
type CyclicDependencyError struct {
	Names []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic constraint dependency: %v", e.Names)
}

// TopologicalOrder returns node indices in an order where every node
// appears after every node it depends on, using Kahn's algorithm with a
// flat in-degree array. Ties (nodes with no remaining dependency once
// available) are broken by ascending original index, making the order
// deterministic for a fixed input.
//
// If the graph contains a cycle, TopologicalOrder returns the partial
// order computed so far and a *CyclicDependencyError naming every node
// that could not be ordered.
func (g *ConstraintGraph) TopologicalOrder() ([]int, error) {
	n := len(g.nodes)
	inDegree := make([]int, n)
	// edges[i] lists what i depends on; in Kahn's terms those are i's
	// predecessors, so the "in-degree" we decrement as dependencies
	// resolve is the count of outstanding edges FROM i.
	for i := 0; i < n; i++ {
		inDegree[i] = len(g.edges[i])
	}

	// dependents[j] lists every i with an edge i -> j (i depends on j),
	// so resolving j can decrement each dependent's in-degree.
	dependents := make([][]int, n)
	for i := 0; i < n; i++ {
		for _, j := range g.edges[i] {
			dependents[j] = append(dependents[j], i)
		}
	}

	ready := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)
	for len(ready) > 0 {
		// Pop the smallest index for determinism; ready stays small in
		// practice (bounded by fan-in), so a linear scan is simplest.
		minPos := 0
		for p := 1; p < len(ready); p++ {
			if ready[p] < ready[minPos] {
				minPos = p
			}
		}
		node := ready[minPos]
		ready = append(ready[:minPos], ready[minPos+1:]...)
		order = append(order, node)

		for _, dependent := range dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) < n {
		var names []string
		ordered := make(map[int]bool, len(order))
		for _, i := range order {
			ordered[i] = true
		}
		for i := 0; i < n; i++ {
			if !ordered[i] {
				names = append(names, g.nodes[i].Name)
			}
		}
		return order, &CyclicDependencyError{Names: names}
	}
	return order, nil
}

// color states for DFS-based cycle detection.
type color int

const (
	white color = iota // unvisited
	gray               // on the current recursion stack
	black              // fully explored
)

// DetectCycle performs a DFS cycle check independent of
// TopologicalOrder, returning the node names on the first cycle found,
// or nil if the graph is acyclic. Used for diagnostics when
// TopologicalOrder's partial result alone isn't descriptive enough.
func (g *ConstraintGraph) DetectCycle() []string {
	n := len(g.nodes)
	colors := make([]color, n)
	var path []int
	var cycle []string

	var visit func(i int) bool
	visit = func(i int) bool {
		colors[i] = gray
		path = append(path, i)
		for _, j := range g.edges[i] {
			switch colors[j] {
			case gray:
				// Found the back edge; unwind path to build the cycle.
				start := -1
				for k, p := range path {
					if p == j {
						start = k
						break
					}
				}
				for _, p := range path[start:] {
					cycle = append(cycle, g.nodes[p].Name)
				}
				return true
			case white:
				if visit(j) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		colors[i] = black
		return false
	}

	for i := 0; i < n; i++ {
		if colors[i] == white {
			if visit(i) {
				return cycle
			}
		}
	}
	return nil
}
