// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEmptySourceScenario: an empty source string for a supported
// language yields an empty, non-nil set rather than an error.
func TestEmptySourceScenario(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	set, err := e.Extract(context.Background(), nil, "go", Options{})
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.True(t, set.Empty())
}

func TestUnsupportedLanguageReturnsError(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), []byte("x"), "cobol", Options{})
	require.ErrorIs(t, err, constraint.ErrUnsupportedLanguage)
}

// TestGoDeclarationsYieldIdentifierConstraints: parsing a single Go type
// declaration and function yields at least one syntactic,
// Identifier-sourced constraint per declared name.
func TestGoDeclarationsYieldIdentifierConstraints(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	src := []byte(`package main

type Config struct {
	Name string
}

func Load() (*Config, error) {
	return nil, nil
}
`)
	set, err := e.Extract(context.Background(), src, "go", Options{})
	require.NoError(t, err)
	require.False(t, set.Empty())

	var names []string
	for _, c := range set.ByKind(constraint.KindSyntactic) {
		if c.Source == constraint.SourceIdentifier {
			names = append(names, c.Name)
		}
	}
	assert.Contains(t, names, "Config")
	assert.Contains(t, names, "Load")
}

// TestExtractSampleProject runs the full pipeline over the checked-in
// fixture project: identifier extraction finds the declared names and
// the pattern engine flags the fmt.Println and panic( hits.
func TestExtractSampleProject(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("..", "..", "test", "fixtures", "sample-go-project", "main.go"))
	require.NoError(t, err)

	e, err := New()
	require.NoError(t, err)

	set, err := e.Extract(context.Background(), src, "go", Options{})
	require.NoError(t, err)

	var identifiers, patternHits []string
	for _, c := range set.Constraints {
		switch c.Source {
		case constraint.SourceIdentifier:
			identifiers = append(identifiers, c.Name)
		case constraint.SourceASTPattern:
			patternHits = append(patternHits, c.Name)
		}
	}
	assert.Contains(t, identifiers, "Server")
	assert.Contains(t, identifiers, "NewServer")
	assert.Contains(t, identifiers, "Start")
	assert.Contains(t, identifiers, "main")
	assert.NotEmpty(t, patternHits)
}

// TestInterfaceDeclarationYieldsTypeSafetyConstraint: a TypeScript
// interface declaration is mined twice — once as a syntactic naming
// constraint and once as a type_safety constraint whose description
// carries the declaration text the schema builder parses downstream.
func TestInterfaceDeclarationYieldsTypeSafetyConstraint(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	src := []byte("interface U { id: string; age?: number }\n")
	set, err := e.Extract(context.Background(), src, "typescript", Options{})
	require.NoError(t, err)

	typeSafety := set.ByKind(constraint.KindTypeSafety)
	require.NotEmpty(t, typeSafety)
	assert.Equal(t, "U", typeSafety[0].Name)
	assert.Equal(t, "interface U { id: string; age?: number }", typeSafety[0].Description)
	assert.Equal(t, constraint.SourceIdentifier, typeSafety[0].Source)
}

// TestSecurityMaskScenario: source containing a pattern-engine security
// hit (Python's eval) produces at least one enabled security
// constraint, which downstream IR compilation turns into a non-empty
// forbidden_tokens mask.
func TestSecurityMaskScenario(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	src := []byte("def run(cmd):\n    eval(cmd)\n")
	set, err := e.Extract(context.Background(), src, "python", Options{})
	require.NoError(t, err)

	security := set.ByKind(constraint.KindSecurity)
	require.NotEmpty(t, security)
	assert.True(t, security[0].Enabled)
}
