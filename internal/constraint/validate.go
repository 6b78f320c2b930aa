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

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validator10() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the struct-tag invariants declared on Constraint
// (confidence bounds, required fields, length limits) plus the closed
// sum-type membership of Kind, Source, and Severity that validator tags
// alone cannot express.
//
// Validate does not sanitize Name or Description; callers that accept
// constraints from outside the extractor (User_Defined, DSL sources) must
// run them through the sanitizer package first and call Validate
// afterward to confirm the result still satisfies the data model's
// invariants.
func Validate(c Constraint) error {
	if err := validator10().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, c.Kind)
	}
	if !c.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, c.Source)
	}
	if !c.Severity.Valid() {
		return fmt.Errorf("%w: unknown severity %d", ErrInvalidInput, c.Severity)
	}
	return nil
}

// ValidateSet validates every constraint in s and returns the first
// failure, if any. An empty set is not itself a validation error; callers
// that require a non-empty set (such as the compiler) check s.Empty()
// separately and return ErrEmptyConstraintSet.
func ValidateSet(s *ConstraintSet) error {
	if s == nil {
		return fmt.Errorf("%w: nil constraint set", ErrInvalidInput)
	}
	for i, c := range s.Constraints {
		if err := Validate(c); err != nil {
			return fmt.Errorf("constraint %d (%s): %w", i, c.Name, err)
		}
	}
	return nil
}
