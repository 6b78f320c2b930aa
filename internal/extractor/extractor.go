// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package extractor implements the Extractor ("Clew") public contract:
// parse, identifier extraction, pattern matching, and optional semantic
// refinement, producing a sanitized ConstraintSet.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/clewbraid/internal/collaborator"
	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/AleutianAI/clewbraid/internal/cst"
	"github.com/AleutianAI/clewbraid/internal/identifier"
	"github.com/AleutianAI/clewbraid/internal/logging"
	"github.com/AleutianAI/clewbraid/internal/patterns"
	"github.com/AleutianAI/clewbraid/internal/sanitizer"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var extractorTracer = otel.Tracer("clewbraid/internal/extractor")

var languageAliases = map[string]cst.Language{
	"typescript": cst.LanguageTypeScript,
	"javascript": cst.LanguageJavaScript,
	"python":     cst.LanguagePython,
	"rust":       cst.LanguageRust,
	"go":         cst.LanguageGo,
}

// Options configures a single Extract call.
type Options struct {
	ParseOptions cst.ParseOptions
	Collaborator collaborator.Collaborator // nil means stage 4 is skipped
	Logger       *slog.Logger
}

// Extractor mines a ConstraintSet from source text through a three (or
// four, with a collaborator configured) stage pipeline.
type Extractor struct {
	parser    *cst.GrammarParser
	catalogue *patterns.Catalogue
}

// New builds an Extractor with the embedded default pattern catalogue.
func New() (*Extractor, error) {
	cat, err := patterns.Load()
	if err != nil {
		return nil, fmt.Errorf("extractor: load pattern catalogue: %w", err)
	}
	return &Extractor{parser: cst.NewGrammarParser(), catalogue: cat}, nil
}

// Extract runs the full pipeline for one source file. Empty source
// yields an empty, non-nil set rather than an error.
func (e *Extractor) Extract(ctx context.Context, source []byte, language string, opts Options) (*constraint.ConstraintSet, error) {
	ctx, span := extractorTracer.Start(ctx, "extractor.Extract")
	defer span.End()
	span.SetAttributes(attribute.String("language", language), attribute.Int("bytes", len(source)))

	log := opts.Logger
	if log == nil {
		log = logging.FromContext(ctx)
	}

	// Unsupported languages short-circuit before anything else, even an
	// empty source.
	lang, ok := languageAliases[language]
	if !ok {
		return nil, fmt.Errorf("%w: %s", constraint.ErrUnsupportedLanguage, language)
	}

	set := constraint.NewConstraintSet(sanitizer.Name(language))
	if len(source) == 0 {
		return set, nil
	}

	result, err := e.parser.Parse(ctx, source, "", lang, opts.ParseOptions)
	if err != nil {
		switch {
		case errors.Is(err, cst.ErrUnsupportedLanguage):
			return nil, fmt.Errorf("%w: %s", constraint.ErrUnsupportedLanguage, language)
		case errors.Is(err, cst.ErrSourceTooLarge):
			return nil, fmt.Errorf("%w", constraint.ErrSourceTooLarge)
		case errors.Is(err, cst.ErrParseTimeout):
			return nil, fmt.Errorf("%w", constraint.ErrParseTimeout)
		default:
			return nil, fmt.Errorf("extractor: parse: %w", err)
		}
	}

	// Stage 2: identifier extraction.
	decls := identifier.Extract(result)
	for _, c := range identifier.ToConstraints(decls) {
		set.Add(c)
	}

	// Stage 3: pattern matching.
	for _, m := range e.catalogue.Scan(string(source), lang) {
		kind, err := parseKind(m.Rule.Kind)
		if err != nil {
			log.WarnContext(ctx, "extractor: pattern rule has invalid kind, skipping", "kind", m.Rule.Kind, "rule", m.Rule.Description)
			continue
		}
		name := sanitizer.Name(m.Rule.Description)
		desc := sanitizer.Description(m.Rule.Description)
		c := constraint.NewConstraint(name, desc, kind, constraint.SourceASTPattern, constraint.SeverityWarning)
		c.OriginLine = m.Location.StartLine
		set.Add(c)
	}

	// Stage 4: optional semantic refinement. Failures here are
	// non-fatal; the set returned is the one built by stages 1-3.
	if opts.Collaborator != nil {
		extra, err := opts.Collaborator.Refine(ctx, set.Constraints)
		if err != nil {
			log.WarnContext(ctx, "extractor: semantic refinement failed, returning syntactic/pattern set only", "error", err)
		}
		for _, c := range extra {
			set.Add(c)
		}
	}

	return set, nil
}

func parseKind(s string) (constraint.Kind, error) {
	k := constraint.Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", constraint.ErrInvalidInput, s)
	}
	return k, nil
}
