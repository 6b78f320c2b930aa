// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package compiler turns a ConstraintSet into a ConstraintIR through graph
// construction, conflict resolution, topological ordering, and priority
// marking, then emits the JSON-Schema, grammar, regex, and token-mask
// fragments that make up the wire schema returned by ToWireSchema.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/clewbraid/internal/collaborator"
	"github.com/AleutianAI/clewbraid/internal/conflict"
	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/AleutianAI/clewbraid/internal/graph"
	"github.com/AleutianAI/clewbraid/internal/interner"
	"github.com/AleutianAI/clewbraid/internal/sanitizer"
	"go.opentelemetry.io/otel"
)

var compilerTracer = otel.Tracer("clewbraid/internal/compiler")

// errorPriority is the transient priority value stamped onto every
// enabled node whose severity is error.
const errorPriority = 1000

// HoleSpec is one refinement slot: a constraint the static fragments
// (schema, grammar, regex, mask) cannot express, left for a downstream
// consumer to refine through the semantic collaborator at decode time.
type HoleSpec struct {
	Name string
	Kind constraint.Kind

	// Pattern is the canonical regex a fill for this slot must match,
	// when the slot's name corresponds to a static pool pattern.
	Pattern string
}

// ConstraintIR is the compiled intermediate representation: the emitted
// fragments plus the overall priority used by ToWireSchema.
type ConstraintIR struct {
	// Name is the sanitized identifier of the originating ConstraintSet,
	// so a caller holding only a cached IR can recover which set
	// produced it. ToWireSchema does not serialize it.
	Name       string
	JSONSchema *Schema
	Grammar    *Grammar
	Patterns   []string
	TokenMask  *TokenMask
	Priority   uint32

	// HoleSpecs lists the refinement slots left by semantic
	// constraints. Like Name, it is carried on the IR for in-process
	// consumers; the fixed wire shape does not include it.
	HoleSpecs []HoleSpec

	// Order holds the topologically sorted, enabled constraints, kept
	// on the IR for inspection by the orchestrator's debug surface.
	Order []constraint.Constraint
}

// Compile runs the full pipeline over set: build the dependency graph,
// detect and resolve conflicts, topologically sort, mark priorities, and
// emit fragments. It mutates set's Enabled flags in place as conflicts
// are resolved by the default (priority-based) strategy. An empty set is
// rejected with ErrEmptyConstraintSet; a cyclic dependency graph that
// survives resolution is rejected with ErrCyclicDependency naming every
// offending node.
func Compile(set *constraint.ConstraintSet) (*ConstraintIR, error) {
	return compile(context.Background(), set, nil, nil)
}

// CompileWithCollaborator is Compile with collaborator-advised conflict
// resolution: detected conflicts are put to collab for a suggested
// action before the default priority-based strategy applies. collab may
// be nil, in which case this is exactly Compile.
func CompileWithCollaborator(ctx context.Context, set *constraint.ConstraintSet, collab collaborator.Collaborator, log *slog.Logger) (*ConstraintIR, error) {
	return compile(ctx, set, collab, log)
}

func compile(ctx context.Context, set *constraint.ConstraintSet, collab collaborator.Collaborator, log *slog.Logger) (*ConstraintIR, error) {
	ctx, span := compilerTracer.Start(ctx, "compiler.Compile")
	defer span.End()

	if set.Empty() {
		return nil, constraint.ErrEmptyConstraintSet
	}

	cfg, err := conflict.LoadDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("compiler: load conflict config: %w", err)
	}
	conflicts := conflict.Detect(set, cfg)
	if collab != nil {
		conflict.ResolveWithCollaborator(ctx, set, conflicts, collab, log)
	} else {
		conflict.ResolveDefault(set, conflicts)
	}

	enabled := set.Enabled()
	g := graph.Build(enabled)
	order, topoErr := g.TopologicalOrder()
	if topoErr != nil {
		var cyc *graph.CyclicDependencyError
		if errors.As(topoErr, &cyc) {
			return nil, fmt.Errorf("%w: %v", constraint.ErrCyclicDependency, cyc.Names)
		}
		return nil, fmt.Errorf("compiler: topological sort: %w", topoErr)
	}

	// Mark priority=1000 on every enabled error-severity node.
	var maxPriority int
	for i := range enabled {
		if enabled[i].Severity == constraint.SeverityError {
			enabled[i].Priority = errorPriority
		}
		if enabled[i].Priority > maxPriority {
			maxPriority = enabled[i].Priority
		}
	}

	sorted := make([]constraint.Constraint, len(order))
	for i, idx := range order {
		sorted[i] = enabled[idx]
	}

	ir := &ConstraintIR{
		Name:       sanitizer.Name(set.Name),
		JSONSchema: buildSchema(sorted),
		Grammar:    BuildGrammar(sorted, interner.New()),
		Patterns:   BuildPatterns(sorted),
		TokenMask:  BuildTokenMask(sorted),
		Priority:   uint32(maxPriority),
		HoleSpecs:  buildHoleSpecs(sorted),
		Order:      sorted,
	}
	return ir, nil
}

// buildHoleSpecs turns every enabled semantic constraint into a
// refinement slot: semantic rules have no static fragment to compile
// into, so what survives compilation is the slot itself.
func buildHoleSpecs(constraints []constraint.Constraint) []HoleSpec {
	var holes []HoleSpec
	for _, c := range constraints {
		if c.Kind != constraint.KindSemantic {
			continue
		}
		h := HoleSpec{Name: c.Name, Kind: c.Kind}
		if r, ok := interner.LookupRegex(c.Name); ok {
			h.Pattern = r.Pattern
		}
		holes = append(holes, h)
	}
	return holes
}

// buildSchema merges every enabled type_safety constraint's description
// fragment into one cumulative object schema. Returns nil if there are
// no type_safety constraints to describe.
func buildSchema(constraints []constraint.Constraint) *Schema {
	var props []PropertyEntry
	var required []string
	seen := make(map[string]bool)
	found := false

	for _, c := range constraints {
		if c.Kind != constraint.KindTypeSafety {
			continue
		}
		found = true
		f := parseFragment(c.Name, c.Description)
		for _, p := range f.props {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			props = append(props, p)
		}
		required = append(required, f.required...)
	}
	if !found {
		return nil
	}
	return &Schema{Type: "object", Properties: props, Required: dedupeStrings(required)}
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
