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

import (
	"context"
	"testing"

	"github.com/AleutianAI/clewbraid/internal/collaborator"
	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfigParsesEmbeddedYAML(t *testing.T) {
	cfg, err := LoadDefaultConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.MutuallyExclusive)
}

// TestConflictingRulesScenario: two enabled constraints named
// forbid_any and allow_any, same kind, produce exactly one detected
// conflict, and resolution disables the lower-severity side.
func TestConflictingRulesScenario(t *testing.T) {
	cfg, err := LoadDefaultConfig()
	require.NoError(t, err)

	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("forbid_any", "", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityWarning))
	set.Add(constraint.NewConstraint("allow_any", "", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityError))

	conflicts := Detect(set, cfg)
	require.Len(t, conflicts, 1)

	ResolveDefault(set, conflicts)
	assert.False(t, set.Constraints[0].Enabled)
	assert.True(t, set.Constraints[1].Enabled)
}

func TestDifferentKindsNeverConflict(t *testing.T) {
	cfg, err := LoadDefaultConfig()
	require.NoError(t, err)

	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("forbid_any", "", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityWarning))
	set.Add(constraint.NewConstraint("allow_any", "", constraint.KindSemantic, constraint.SourceUserDefined, constraint.SeverityError))

	assert.Empty(t, Detect(set, cfg))
}

func TestResolveDefaultBreaksTiesByConfidenceThenID(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("forbid_any", "", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityWarning))
	set.Add(constraint.NewConstraint("allow_any", "", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityWarning))
	set.Constraints[0].Confidence = 0.9
	set.Constraints[1].Confidence = 0.5

	ResolveDefault(set, []Conflict{{AIndex: 0, BIndex: 1}})
	assert.True(t, set.Constraints[0].Enabled)
	assert.False(t, set.Constraints[1].Enabled)
}

func TestResolveWithCollaboratorFallsBackOnMerge(t *testing.T) {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("forbid_any", "", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityWarning))
	set.Add(constraint.NewConstraint("allow_any", "", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityError))

	ResolveWithCollaborator(context.Background(), set, []Conflict{{AIndex: 0, BIndex: 1}}, mergeSuggester{}, nil)
	assert.False(t, set.Constraints[0].Enabled)
	assert.True(t, set.Constraints[1].Enabled)
}

type mergeSuggester struct{}

func (mergeSuggester) Refine(ctx context.Context, candidates []constraint.Constraint) ([]constraint.Constraint, error) {
	return nil, nil
}

func (mergeSuggester) SuggestResolution(ctx context.Context, conflicts []collaborator.ConflictSummary) ([]collaborator.Action, error) {
	out := make([]collaborator.Action, len(conflicts))
	for i := range out {
		out[i] = collaborator.Action{Type: collaborator.ActionMerge}
	}
	return out, nil
}
