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
	"log/slog"

	"github.com/AleutianAI/clewbraid/internal/collaborator"
	"github.com/AleutianAI/clewbraid/internal/constraint"
)

// ResolveDefault disables one constraint per conflict, in place on set:
// the lower-severity constraint loses; ties are broken by higher
// confidence, then by lower id.
func ResolveDefault(set *constraint.ConstraintSet, conflicts []Conflict) {
	for _, c := range conflicts {
		disableLowerPriority(set, c.AIndex, c.BIndex)
	}
}

func disableLowerPriority(set *constraint.ConstraintSet, a, b int) {
	ca, cb := &set.Constraints[a], &set.Constraints[b]
	loser := a
	switch {
	case ca.Severity != cb.Severity:
		if ca.Severity > cb.Severity {
			loser = b
		}
	case ca.Confidence != cb.Confidence:
		if ca.Confidence > cb.Confidence {
			loser = b
		}
	default:
		if ca.ID < cb.ID {
			loser = b
		}
	}
	set.Constraints[loser].Enabled = false
}

// ResolveWithCollaborator asks collab for a resolution per conflict. An
// ActionDisableA/ActionDisableB is applied directly. ActionMerge and
// ActionModifyA/ActionModifyB are logged and fall back to
// ResolveDefault for that pair — accepted as recognized actions but not
// executed in this implementation. A collaborator error for the whole
// batch falls back to ResolveDefault for every conflict.
func ResolveWithCollaborator(ctx context.Context, set *constraint.ConstraintSet, conflicts []Conflict, collab collaborator.Collaborator, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	if len(conflicts) == 0 {
		return
	}

	summaries := make([]collaborator.ConflictSummary, len(conflicts))
	for i, c := range conflicts {
		a, b := set.Constraints[c.AIndex], set.Constraints[c.BIndex]
		summaries[i] = collaborator.ConflictSummary{
			AID: a.ID, BID: b.ID,
			AName: a.Name, BName: b.Name,
			AKind: a.Kind, BKind: b.Kind,
			ADesc: a.Description, BDesc: b.Description,
		}
	}

	actions, err := collab.SuggestResolution(ctx, summaries)
	if err != nil {
		log.WarnContext(ctx, "conflict: collaborator resolution failed, falling back to default", "error", err)
		ResolveDefault(set, conflicts)
		return
	}

	for i, conf := range conflicts {
		if i >= len(actions) {
			disableLowerPriority(set, conf.AIndex, conf.BIndex)
			continue
		}
		switch actions[i].Type {
		case collaborator.ActionDisableA:
			set.Constraints[conf.AIndex].Enabled = false
		case collaborator.ActionDisableB:
			set.Constraints[conf.BIndex].Enabled = false
		case collaborator.ActionMerge, collaborator.ActionModifyA, collaborator.ActionModifyB:
			log.InfoContext(ctx, "conflict: collaborator requested unsupported action, falling back to default",
				"action", actions[i].Type, "a", set.Constraints[conf.AIndex].Name, "b", set.Constraints[conf.BIndex].Name)
			disableLowerPriority(set, conf.AIndex, conf.BIndex)
		default:
			disableLowerPriority(set, conf.AIndex, conf.BIndex)
		}
	}
}
