// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tui

import (
	"testing"

	"github.com/AleutianAI/clewbraid/internal/compiler"
	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/stretchr/testify/assert"
)

func TestContributesToReportsTheMatchingFragment(t *testing.T) {
	ir := &compiler.ConstraintIR{
		JSONSchema: &compiler.Schema{},
	}

	c := constraint.NewConstraint("NoFloat", "floats are forbidden", constraint.KindTypeSafety, constraint.SourceIdentifier, constraint.SeverityError)
	assert.Equal(t, "json_schema", contributesTo(c, ir))

	other := constraint.NewConstraint("NoEval", "eval is forbidden", constraint.KindSecurity, constraint.SourceASTPattern, constraint.SeverityError)
	assert.Equal(t, "(none — disabled or not part of an emission rule)", contributesTo(other, ir))
}

func TestNewModelSeedsOneListItemPerOrderEntry(t *testing.T) {
	ir := &compiler.ConstraintIR{
		Order: []constraint.Constraint{
			constraint.NewConstraint("A", "a", constraint.KindSyntactic, constraint.SourceIdentifier, constraint.SeverityHint),
			constraint.NewConstraint("B", "b", constraint.KindSyntactic, constraint.SourceIdentifier, constraint.SeverityHint),
		},
	}
	m := New("demo", ir)
	assert.Len(t, m.list.Items(), 2)
}
