// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package collaborator defines the optional semantic-refinement stage
// and conflict-resolution advisor: an abstract interface any LLM-backed
// or rule-based implementation satisfies, plus a langchaingo-backed
// concrete adapter and a no-op fallback.
package collaborator

import (
	"context"

	"github.com/AleutianAI/clewbraid/internal/constraint"
)

// ActionType is the set of resolution actions a collaborator may
// suggest for a detected conflict.
type ActionType string

const (
	ActionDisableA ActionType = "disable_a"
	ActionDisableB ActionType = "disable_b"
	ActionMerge    ActionType = "merge"
	ActionModifyA  ActionType = "modify_a"
	ActionModifyB  ActionType = "modify_b"
)

// ConflictSummary is the minimal, already-sanitized view of a detected
// conflict a collaborator needs to suggest a resolution, independent of
// the conflict package's own internal representation.
type ConflictSummary struct {
	AID, BID     string
	AName, BName string
	AKind, BKind constraint.Kind
	ADesc, BDesc string
}

// Action is one suggested resolution for a ConflictSummary.
type Action struct {
	Type ActionType

	// Merged is populated only when Type is ActionMerge: the constraint
	// that should replace both A and B.
	Merged *constraint.Constraint
}

// Collaborator is the abstract semantic-refinement and conflict-advisor
// interface. Implementations must be safe for concurrent use.
type Collaborator interface {
	// Refine proposes additional constraints (typically semantic,
	// sourced LLM_Analysis) given the candidates mined so far. It may
	// return fewer candidates than it received if some now look
	// redundant, but it never removes a candidate from the caller's own
	// set — the caller decides what to keep.
	Refine(ctx context.Context, candidates []constraint.Constraint) ([]constraint.Constraint, error)

	// SuggestResolution proposes one Action per ConflictSummary, in the
	// same order as conflicts.
	SuggestResolution(ctx context.Context, conflicts []ConflictSummary) ([]Action, error)
}

// Noop is a Collaborator that declines to refine or resolve anything.
// It is the default when no semantic backend is configured, and the
// fallback extractor/conflict resolution always has available.
type Noop struct{}

func (Noop) Refine(ctx context.Context, candidates []constraint.Constraint) ([]constraint.Constraint, error) {
	return nil, nil
}

func (Noop) SuggestResolution(ctx context.Context, conflicts []ConflictSummary) ([]Action, error) {
	return nil, nil
}

var _ Collaborator = Noop{}
