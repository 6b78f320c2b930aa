// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package constraint defines the core data model mined by the extractor and
// consumed by the compiler: Constraint, ConstraintSet, and the closed sum
// types Kind, Source, and Severity.
//
// Thread Safety: Constraint and ConstraintSet values are immutable once
// sanitized and should be treated as read-only by callers other than the
// extractor that created them and the compiler that copies from them.
package constraint

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind categorizes a Constraint.
type Kind string

// The closed set of constraint kinds.
const (
	KindSyntactic     Kind = "syntactic"
	KindTypeSafety    Kind = "type_safety"
	KindSemantic      Kind = "semantic"
	KindArchitectural Kind = "architectural"
	KindOperational   Kind = "operational"
	KindSecurity      Kind = "security"
)

// Valid reports whether k is one of the closed Kind values.
func (k Kind) Valid() bool {
	switch k {
	case KindSyntactic, KindTypeSafety, KindSemantic, KindArchitectural, KindOperational, KindSecurity:
		return true
	default:
		return false
	}
}

// Source identifies where a Constraint originated.
type Source string

// The closed set of constraint sources.
const (
	SourceASTPattern  Source = "AST_Pattern"
	SourceIdentifier  Source = "Identifier"
	SourceUserDefined Source = "User_Defined"
	SourceLLMAnalysis Source = "LLM_Analysis"
	SourceDSL         Source = "DSL"
)

// Valid reports whether s is one of the closed Source values.
func (s Source) Valid() bool {
	switch s {
	case SourceASTPattern, SourceIdentifier, SourceUserDefined, SourceLLMAnalysis, SourceDSL:
		return true
	default:
		return false
	}
}

// Severity is a totally ordered label used for conflict tie-breaking.
type Severity int

// The closed, totally ordered set of severities. Order matters: comparisons
// such as "lower severity" use the numeric value directly.
const (
	SeverityHint Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// Valid reports whether sv is one of the closed Severity values.
func (sv Severity) Valid() bool {
	return sv >= SeverityHint && sv <= SeverityError
}

// String renders the severity the way it is spelled in serialized
// constraint sets and config files.
func (sv Severity) String() string {
	switch sv {
	case SeverityHint:
		return "hint"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the severity as its string form, so serialized
// constraint sets read "warning" rather than a bare ordinal.
func (sv Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(sv.String())
}

// UnmarshalJSON accepts the string form produced by MarshalJSON.
func (sv *Severity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: severity must be a string", ErrInvalidInput)
	}
	parsed, err := ParseSeverity(s)
	if err != nil {
		return err
	}
	*sv = parsed
	return nil
}

// ParseSeverity parses the string form produced by Severity.String.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "hint":
		return SeverityHint, nil
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return 0, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, s)
	}
}

// Constraint is a single mined or user-supplied rule about what generated
// code must or must not contain.
//
// Invariants:
//   - 0 <= Confidence <= 1
//   - after sanitization, Name matches [A-Za-z0-9_-]{1,64}
//   - after sanitization, Description is <= 512 bytes
//
// The tuple (Kind, Name) need not be unique within a ConstraintSet;
// duplicates are folded by the compiler.
type Constraint struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required,max=64"`
	Description string   `json:"description" validate:"max=512"`
	Kind        Kind     `json:"kind" validate:"required"`
	Source      Source   `json:"source" validate:"required"`
	Severity    Severity `json:"severity"`
	Confidence  float64  `json:"confidence" validate:"min=0,max=1"`
	Frequency   int      `json:"frequency" validate:"min=0"`
	OriginFile  string   `json:"origin_file,omitempty"`
	OriginLine  int      `json:"origin_line,omitempty"`
	Enabled     bool     `json:"enabled"`

	// Priority is a transient field set by the compiler during IR
	// compilation. It is not part of the persisted data model and is
	// ignored by the sanitizer/validator.
	Priority int `json:"-"`
}

// NewConstraint builds a Constraint with a generated ID and Enabled
// defaulted to true, the shape every extractor stage constructs.
func NewConstraint(name, description string, kind Kind, source Source, severity Severity) Constraint {
	return Constraint{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Kind:        kind,
		Source:      source,
		Severity:    severity,
		Confidence:  1.0,
		Enabled:     true,
	}
}

// ConstraintSet is an ordered, named collection of Constraints. Insertion
// order is preserved until compilation.
type ConstraintSet struct {
	Name        string
	Constraints []Constraint
}

// NewConstraintSet creates an empty, named ConstraintSet.
func NewConstraintSet(name string) *ConstraintSet {
	return &ConstraintSet{Name: name, Constraints: make([]Constraint, 0)}
}

// Add appends c to the set, preserving insertion order.
func (s *ConstraintSet) Add(c Constraint) {
	s.Constraints = append(s.Constraints, c)
}

// Len returns the number of constraints in the set.
func (s *ConstraintSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Constraints)
}

// Empty reports whether the set has no constraints.
func (s *ConstraintSet) Empty() bool {
	return s.Len() == 0
}

// Enabled returns the subset of constraints whose Enabled flag is true,
// preserving relative order.
func (s *ConstraintSet) Enabled() []Constraint {
	out := make([]Constraint, 0, len(s.Constraints))
	for _, c := range s.Constraints {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

// ByKind returns the subset of constraints matching k, preserving relative
// order.
func (s *ConstraintSet) ByKind(k Kind) []Constraint {
	out := make([]Constraint, 0)
	for _, c := range s.Constraints {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}
