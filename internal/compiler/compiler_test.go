// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package compiler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/AleutianAI/clewbraid/internal/collaborator"
	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileEmptySetScenario(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	_, err := Compile(set)
	require.ErrorIs(t, err, constraint.ErrEmptyConstraintSet)
}

// TestSingleInterfaceSchemaScenario: a single type_safety constraint
// describing "interface U { id: string; age?: number }" compiles to a
// schema with required=["id"] and age mapped to integer.
func TestSingleInterfaceSchemaScenario(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("U", "interface U { id: string; age?: number }", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityWarning))

	ir, err := Compile(set)
	require.NoError(t, err)
	require.NotNil(t, ir.JSONSchema)

	b, err := json.Marshal(ir.JSONSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{"id":{"type":"string"},"age":{"type":"integer"}},"required":["id"]}`, string(b))
}

// TestJSONSchemaShapeProperty pins the exact emitted shape for an
// object-literal description { name: string; age?: number }.
func TestJSONSchemaShapeProperty(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("Anon", "{ name: string; age?: number }", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityWarning))

	ir, err := Compile(set)
	require.NoError(t, err)

	b, err := json.Marshal(ir.JSONSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{"name":{"type":"string"},"age":{"type":"integer"}},"required":["name"]}`, string(b))
}

// TestArrayTypingProperty: tags: Array<string> becomes an
// array-of-string property and is required (no '?').
func TestArrayTypingProperty(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("Tags", "tags: Array<string>", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityWarning))

	ir, err := Compile(set)
	require.NoError(t, err)

	b, err := json.Marshal(ir.JSONSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{"tags":{"type":"array","items":{"type":"string"}}},"required":["tags"]}`, string(b))
}

// TestConflictingRulesScenario: forbid_any (error) survives, allow_any
// (warning) is disabled and omitted from the wire schema's grammar.
func TestConflictingRulesScenario(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("forbid_any", "", constraint.KindSyntactic, constraint.SourceUserDefined, constraint.SeverityError))
	set.Add(constraint.NewConstraint("allow_any", "", constraint.KindSyntactic, constraint.SourceUserDefined, constraint.SeverityWarning))

	ir, err := Compile(set)
	require.NoError(t, err)
	require.NotNil(t, ir.Grammar)

	var names []string
	for _, r := range ir.Grammar.Rules {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "forbid_any")
	assert.NotContains(t, names, "allow_any")
	assert.Equal(t, uint32(errorPriority), ir.Priority)
}

type disableASuggester struct{}

func (disableASuggester) Refine(ctx context.Context, candidates []constraint.Constraint) ([]constraint.Constraint, error) {
	return nil, nil
}

func (disableASuggester) SuggestResolution(ctx context.Context, conflicts []collaborator.ConflictSummary) ([]collaborator.Action, error) {
	out := make([]collaborator.Action, len(conflicts))
	for i := range out {
		out[i] = collaborator.Action{Type: collaborator.ActionDisableA}
	}
	return out, nil
}

// TestCompileWithCollaboratorAppliesSuggestedAction shows a
// collaborator overriding the default resolution: forbid_any would win
// on severity, but the suggested disable_a removes it instead.
func TestCompileWithCollaboratorAppliesSuggestedAction(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("forbid_any", "", constraint.KindSyntactic, constraint.SourceUserDefined, constraint.SeverityError))
	set.Add(constraint.NewConstraint("allow_any", "", constraint.KindSyntactic, constraint.SourceUserDefined, constraint.SeverityWarning))

	ir, err := CompileWithCollaborator(context.Background(), set, disableASuggester{}, nil)
	require.NoError(t, err)
	require.NotNil(t, ir.Grammar)

	var names []string
	for _, r := range ir.Grammar.Rules {
		names = append(names, r.Name)
	}
	assert.NotContains(t, names, "forbid_any")
	assert.Contains(t, names, "allow_any")
}

// TestSemanticConstraintsBecomeHoleSpecs: semantic rules have no static
// fragment, so each enabled one survives as a refinement slot on the IR.
func TestSemanticConstraintsBecomeHoleSpecs(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("names_reflect_intent", "identifiers should describe what they hold", constraint.KindSemantic, constraint.SourceLLMAnalysis, constraint.SeverityInfo))

	ir, err := Compile(set)
	require.NoError(t, err)
	require.Len(t, ir.HoleSpecs, 1)
	assert.Equal(t, "names_reflect_intent", ir.HoleSpecs[0].Name)
	assert.Equal(t, constraint.KindSemantic, ir.HoleSpecs[0].Kind)
}

// TestSecurityMaskScenario: an enabled security constraint produces a
// non-empty forbidden_tokens mask.
func TestSecurityMaskScenario(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("no_eval", "eval() is forbidden", constraint.KindSecurity, constraint.SourceASTPattern, constraint.SeverityWarning))

	ir, err := Compile(set)
	require.NoError(t, err)
	require.NotNil(t, ir.TokenMask)
	assert.NotEmpty(t, ir.TokenMask.ForbiddenTokens)

	wire, err := ToWireSchema(ir)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(wire, &decoded))
	masks, ok := decoded["token_masks"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, masks["forbidden_tokens"])
}

// TestCompileOrdersAcrossKinds exercises the non-cyclic path of the
// kind-dependency table: a syntactic and a type_safety constraint
// compile cleanly, with the type_safety node ordered after its
// syntactic dependency. The cyclic a->b->a case is a synthetic graph
// that cannot arise from the fixed kind table, so it is covered
// directly in the graph package's own tests (TestCyclicGraphScenario).
func TestCompileOrdersAcrossKinds(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("a", "", constraint.KindSyntactic, constraint.SourceUserDefined, constraint.SeverityWarning))
	set.Add(constraint.NewConstraint("b", "", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityWarning))

	ir, err := Compile(set)
	require.NoError(t, err)

	pos := make(map[string]int, len(ir.Order))
	for i, c := range ir.Order {
		pos[c.Name] = i
	}
	assert.Less(t, pos["a"], pos["b"])
}

func TestWireSchemaOmitsAbsentOptionalFields(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("rule_a", "", constraint.KindSyntactic, constraint.SourceUserDefined, constraint.SeverityWarning))

	ir, err := Compile(set)
	require.NoError(t, err)
	wire, err := ToWireSchema(ir)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(wire, &decoded))
	_, hasSchema := decoded["json_schema"]
	_, hasMasks := decoded["token_masks"]
	assert.False(t, hasSchema)
	assert.False(t, hasMasks)
	assert.Equal(t, "guidance", decoded["type"])
	assert.Equal(t, "1.0", decoded["version"])
}

// TestDeterministicCompile: compiling the same set twice yields
// byte-identical wire schemas.
func TestDeterministicCompile(t *testing.T) {
	build := func() *constraint.ConstraintSet {
		set := constraint.NewConstraintSet("test")
		set.Add(constraint.NewConstraint("U", "interface U { id: string; age?: number }", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityWarning))
		set.Add(constraint.NewConstraint("rule_a", "", constraint.KindSyntactic, constraint.SourceUserDefined, constraint.SeverityWarning))
		return set
	}

	ir1, err := Compile(build())
	require.NoError(t, err)
	ir2, err := Compile(build())
	require.NoError(t, err)

	wire1, err := ToWireSchema(ir1)
	require.NoError(t, err)
	wire2, err := ToWireSchema(ir2)
	require.NoError(t, err)
	assert.Equal(t, wire1, wire2)
}

func TestBareTypeHeuristics(t *testing.T) {
	cases := map[string]struct {
		typeName string
		format   string
	}{
		"email keyword": {"email", "email"},
		"uri keyword":   {"uri", "uri"},
		"date keyword":  {"date", "date"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := bareType(tc.typeName)
			assert.Equal(t, "string", s.Type)
			assert.Equal(t, tc.format, s.Format)
		})
	}
}

func TestBareTypeUnknownDegradesToString(t *testing.T) {
	s := bareType("widget")
	assert.Equal(t, "string", s.Type)
	assert.Empty(t, s.Format)
}

func TestBareTypeRange(t *testing.T) {
	s := bareType("range:1-10")
	require.Equal(t, "number", s.Type)
	require.NotNil(t, s.Minimum)
	require.NotNil(t, s.Maximum)
	assert.Equal(t, 1.0, *s.Minimum)
	assert.Equal(t, 10.0, *s.Maximum)
}
