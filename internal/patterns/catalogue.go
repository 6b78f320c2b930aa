// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package patterns

import (
	_ "embed"
	"fmt"
	"regexp"

	"github.com/AleutianAI/clewbraid/internal/cst"
	"gopkg.in/yaml.v3"
)

//go:embed catalogue.yaml
var defaultCatalogueYAML []byte

// rawRule mirrors one YAML catalogue entry before compilation.
type rawRule struct {
	Pattern     string `yaml:"pattern"`
	Regex       string `yaml:"regex"`
	Kind        string `yaml:"kind"`
	Description string `yaml:"description"`
}

// catalogueDoc is the top-level shape of catalogue.yaml: one rule list
// per language key.
type catalogueDoc map[cst.Language][]rawRule

// Catalogue is the compiled, first-byte-indexed rule set for one or more
// languages. Safe for concurrent read-only use once built.
type Catalogue struct {
	byLanguage map[cst.Language]*bucketIndex
}

// bucketIndex groups compiled rules by the first ASCII byte of their
// match target (the literal Pattern, or a fixed prefix extracted from
// Regex when present). Patterns whose first byte is non-ASCII, or whose
// regex has no fixed literal prefix, fall into the catch-all bucket 128.
type bucketIndex struct {
	buckets [129][]compiledRule
}

func newBucketIndex() *bucketIndex {
	return &bucketIndex{}
}

func (b *bucketIndex) add(r compiledRule) {
	key := 128
	switch {
	case r.Pattern != "" && r.Pattern[0] < 128:
		key = int(r.Pattern[0])
	case r.Regex != "":
		if p := fixedPrefix(r.Regex); p != "" && p[0] < 128 {
			key = int(p[0])
		}
	}
	b.buckets[key] = append(b.buckets[key], r)
}

// fixedPrefix returns the leading run of literal (non-metacharacter)
// bytes in a regex pattern, or "" if the pattern starts with a
// metacharacter or anchor.
func fixedPrefix(re string) string {
	i := 0
	for i < len(re) {
		switch re[i] {
		case '\\', '.', '*', '+', '?', '(', ')', '[', ']', '{', '}', '|', '^', '$':
			return re[:i]
		}
		i++
	}
	return re
}

// Load parses and compiles the embedded default catalogue.
func Load() (*Catalogue, error) {
	var doc catalogueDoc
	if err := yaml.Unmarshal(defaultCatalogueYAML, &doc); err != nil {
		return nil, fmt.Errorf("patterns: parse catalogue: %w", err)
	}
	return build(doc)
}

func build(doc catalogueDoc) (*Catalogue, error) {
	c := &Catalogue{byLanguage: make(map[cst.Language]*bucketIndex, len(doc))}
	for lang, rules := range doc {
		idx := newBucketIndex()
		for _, rr := range rules {
			cr := compiledRule{Rule: Rule{
				Pattern:     rr.Pattern,
				Regex:       rr.Regex,
				Kind:        rr.Kind,
				Description: rr.Description,
			}}
			if rr.Regex != "" {
				re, err := regexp.Compile(rr.Regex)
				if err != nil {
					return nil, fmt.Errorf("patterns: compile rule %q for %s: %w", rr.Description, lang, err)
				}
				cr.re = re
			}
			idx.add(cr)
		}
		c.byLanguage[lang] = idx
	}
	return c, nil
}

// rulesFor returns the compiled rules for lang, grouped by the bucket
// index, for languages present in the catalogue. ok is false if lang
// has no rules registered.
func (c *Catalogue) rulesFor(lang cst.Language) (*bucketIndex, bool) {
	idx, ok := c.byLanguage[lang]
	return idx, ok
}
