// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package conflict implements the conflict resolver: bucketed pairwise
// detection within a constraint set, a default priority-based
// resolution, and an optional collaborator-driven resolution path.
package conflict

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed confusion_pairs.yaml
var defaultConfusionPairsYAML []byte

// MutuallyExclusivePair names two constraint rules that can never both
// be enabled, the seed set `conflicts(a,b)` checks before falling back
// to its naming heuristic.
type MutuallyExclusivePair struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// Config is the registered, extensible conflict-rule table.
type Config struct {
	MutuallyExclusive []MutuallyExclusivePair `yaml:"mutually_exclusive_pairs"`
}

func (c Config) conflictsByName(nameA, nameB string) bool {
	for _, p := range c.MutuallyExclusive {
		if (p.A == nameA && p.B == nameB) || (p.A == nameB && p.B == nameA) {
			return true
		}
	}
	return forbidAllowHeuristic(nameA, nameB)
}

// forbidAllowHeuristic extends the registered table with a naming
// convention: forbid_X and allow_X always conflict, without requiring
// every such pair to be listed explicitly.
func forbidAllowHeuristic(nameA, nameB string) bool {
	fa, fb := strings.TrimPrefix(nameA, "forbid_"), strings.TrimPrefix(nameB, "forbid_")
	aa, ab := strings.TrimPrefix(nameA, "allow_"), strings.TrimPrefix(nameB, "allow_")
	isForbidA, isAllowA := fa != nameA, aa != nameA
	isForbidB, isAllowB := fb != nameB, ab != nameB
	if isForbidA && isAllowB && fa == ab {
		return true
	}
	if isAllowA && isForbidB && aa == fb {
		return true
	}
	return false
}

// LoadDefaultConfig parses the embedded confusion-pairs catalogue.
func LoadDefaultConfig() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfusionPairsYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("conflict: parse confusion pairs: %w", err)
	}
	return cfg, nil
}
