// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package constraint

import "errors"

// The module's error taxonomy. Every surfaced error wraps one of these
// sentinels so callers can classify failures with errors.Is, and every
// sentinel carries a stable Code for the reporting contract.
var (
	ErrUnsupportedLanguage     = errors.New("unsupported language")
	ErrSourceTooLarge          = errors.New("source exceeds configured size limit")
	ErrParseTimeout            = errors.New("parse timed out")
	ErrEmptyConstraintSet      = errors.New("empty constraint set")
	ErrCyclicDependency        = errors.New("cyclic constraint dependency")
	ErrInvalidInput            = errors.New("invalid input")
	ErrAllocationFailure       = errors.New("allocation failure")
	ErrCollaboratorUnavailable = errors.New("semantic collaborator unavailable")
)

// Code returns the stable taxonomy name for a sentinel error, or "Ok" if
// err is nil, or "InvalidInput" for anything unrecognized. Code never
// panics and never logs err itself, since the message may carry
// unsanitized user input.
func Code(err error) string {
	switch {
	case err == nil:
		return "Ok"
	case errors.Is(err, ErrUnsupportedLanguage):
		return "UnsupportedLanguage"
	case errors.Is(err, ErrSourceTooLarge):
		return "SourceTooLarge"
	case errors.Is(err, ErrParseTimeout):
		return "ParseTimeout"
	case errors.Is(err, ErrEmptyConstraintSet):
		return "EmptyConstraintSet"
	case errors.Is(err, ErrCyclicDependency):
		return "CyclicDependency"
	case errors.Is(err, ErrAllocationFailure):
		return "AllocationFailure"
	case errors.Is(err, ErrCollaboratorUnavailable):
		return "CollaboratorUnavailable"
	default:
		return "InvalidInput"
	}
}
