// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package orchestrator implements the facade over the Extractor and IR
// compiler — extract, cached compile, and wire-schema serialization —
// plus an optional debug HTTP/websocket server for local inspection.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/clewbraid/internal/cache"
	"github.com/AleutianAI/clewbraid/internal/collaborator"
	"github.com/AleutianAI/clewbraid/internal/compiler"
	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/AleutianAI/clewbraid/internal/cst"
	"github.com/AleutianAI/clewbraid/internal/extractor"
	"go.opentelemetry.io/otel"
)

var orchestratorTracer = otel.Tracer("clewbraid/internal/orchestrator")

// Orchestrator is the module's single entry point: one instance owns
// its extractor, its optional cache, and its optional semantic
// collaborator. An instance is not thread-safe across concurrent
// Compile calls sharing the same cache entry race window, though
// independent instances may run on independent goroutines.
type Orchestrator struct {
	extractor    *extractor.Extractor
	cache        *cache.Cache
	collaborator collaborator.Collaborator
	parseOptions cst.ParseOptions
	log          *slog.Logger
}

// Option configures an Orchestrator at construction.
type Option func(*Orchestrator)

// WithCache attaches a compile cache. Without one, every Compile call
// recomputes the IR and wire schema.
func WithCache(c *cache.Cache) Option {
	return func(o *Orchestrator) { o.cache = c }
}

// WithCollaborator attaches a semantic collaborator used for stage 4
// extraction refinement and collaborator-advised conflict resolution.
func WithCollaborator(c collaborator.Collaborator) Option {
	return func(o *Orchestrator) { o.collaborator = c }
}

// WithParseOptions overrides the default parse size bound. Parse time is
// bounded only by the ctx passed to Extract.
func WithParseOptions(opts cst.ParseOptions) Option {
	return func(o *Orchestrator) { o.parseOptions = opts }
}

// WithLogger overrides the logger used for orchestrator-level
// diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// New builds an Orchestrator with the embedded default pattern
// catalogue and no cache or collaborator configured.
func New(opts ...Option) (*Orchestrator, error) {
	e, err := extractor.New()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: new extractor: %w", err)
	}
	o := &Orchestrator{extractor: e, log: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Extract mines a ConstraintSet from source. Errors bubble with
// context; Extract never panics on user input.
func (o *Orchestrator) Extract(ctx context.Context, source []byte, language string) (*constraint.ConstraintSet, error) {
	ctx, span := orchestratorTracer.Start(ctx, "orchestrator.Extract")
	defer span.End()

	set, err := o.extractor.Extract(ctx, source, language, extractor.Options{
		ParseOptions: o.parseOptions,
		Collaborator: o.collaborator,
		Logger:       o.log,
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: extract: %w", err)
	}
	return set, nil
}

// Compile compiles set and serializes the result, consulting the cache
// first when one is configured. On a cache hit, ir is nil (the cache
// stores only the serialized wire schema) and wire is the cached bytes;
// callers that need the structured IR itself should call Recompile,
// which always runs the pipeline.
func (o *Orchestrator) Compile(ctx context.Context, set *constraint.ConstraintSet) (ir *compiler.ConstraintIR, wire []byte, err error) {
	ctx, span := orchestratorTracer.Start(ctx, "orchestrator.Compile")
	defer span.End()

	var fp cache.Fingerprint
	if o.cache != nil {
		fp = cache.Compute(set)
		if hit, ok := o.cache.Get(ctx, fp); ok {
			return nil, hit, nil
		}
	}

	ir, err = compiler.CompileWithCollaborator(ctx, set, o.collaborator, o.log)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator: compile: %w", err)
	}
	wire, err = compiler.ToWireSchema(ir)
	if err != nil {
		return ir, nil, fmt.Errorf("orchestrator: to_wire_schema: %w", err)
	}

	if o.cache != nil {
		o.cache.Put(ctx, fp, wire)
	}
	return ir, wire, nil
}

// Recompile is Compile without consulting or populating the cache,
// for callers (the debug server, the TUI) that need the structured IR
// unconditionally.
func (o *Orchestrator) Recompile(set *constraint.ConstraintSet) (*compiler.ConstraintIR, []byte, error) {
	ir, err := compiler.CompileWithCollaborator(context.Background(), set, o.collaborator, o.log)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator: compile: %w", err)
	}
	wire, err := compiler.ToWireSchema(ir)
	if err != nil {
		return ir, nil, fmt.Errorf("orchestrator: to_wire_schema: %w", err)
	}
	return ir, wire, nil
}

// ToWireSchema exposes the compiler's serialization step directly, for
// callers already holding an IR.
func ToWireSchema(ir *compiler.ConstraintIR) ([]byte, error) {
	return compiler.ToWireSchema(ir)
}
