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
	"testing"

	"github.com/AleutianAI/clewbraid/internal/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCompilesEmbeddedCatalogue(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	total := 0
	for _, lang := range []cst.Language{cst.LanguageGo, cst.LanguageTypeScript, cst.LanguageJavaScript, cst.LanguagePython, cst.LanguageRust} {
		total += c.RuleCount(lang)
	}
	assert.Greater(t, total, 40)
}

func TestScanFindsLiteralMatches(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	src := "func main() {\n\tfmt.Println(\"hi\")\n\tpanic(\"boom\")\n}\n"
	matches := c.Scan(src, cst.LanguageGo)

	var kinds []string
	for _, m := range matches {
		kinds = append(kinds, m.Rule.Description)
	}
	assert.Contains(t, kinds, "prefer a configured logger over fmt.Println for production output")
	assert.Contains(t, kinds, "panic used outside of init or a documented unrecoverable path")
}

func TestScanRecordsNonOverlappingFirstMatchPerPosition(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	src := "result.unwrap().unwrap()"
	matches := c.Scan(src, cst.LanguageRust)
	require.Len(t, matches, 2)
	assert.Equal(t, 6, matches[0].Offset)
	assert.Equal(t, matches[0].Offset+matches[0].Length, matches[1].Offset)
}

func TestScanUnknownLanguageReturnsNil(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Nil(t, c.Scan("anything", cst.Language("cobol")))
}

func TestFixedPrefixStopsAtMetacharacter(t *testing.T) {
	assert.Equal(t, "func", fixedPrefix(`func\s+\w+`))
	assert.Equal(t, "", fixedPrefix(`\s+func`))
	assert.Equal(t, "plain", fixedPrefix("plain"))
}
