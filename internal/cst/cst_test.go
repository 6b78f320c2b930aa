// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cst

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGoFunctionAndType(t *testing.T) {
	src := []byte(`package main

func Greet(name string) string {
	return "hi " + name
}

type Widget struct {
	ID int
}
`)
	p := NewGrammarParser()
	result, err := p.Parse(context.Background(), src, "widget.go", LanguageGo, ParseOptions{})
	require.NoError(t, err)
	require.NoError(t, result.Validate())

	var names []string
	for _, s := range result.Symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Greet")
	assert.Contains(t, names, "Widget")
}

func TestParseCapturesTypeDeclarationText(t *testing.T) {
	src := []byte("interface U {\n  id: string;\n  age?: number\n}\n")
	p := NewGrammarParser()
	result, err := p.Parse(context.Background(), src, "u.ts", LanguageTypeScript, ParseOptions{})
	require.NoError(t, err)

	var iface *Symbol
	for _, s := range result.Symbols {
		if s.Kind == SymbolKindInterface {
			iface = s
		}
	}
	require.NotNil(t, iface)
	assert.Equal(t, "U", iface.Name)
	assert.Equal(t, "interface U { id: string; age?: number }", iface.Text)
}

func TestParseEmptySourceReturnsEmptyResult(t *testing.T) {
	p := NewGrammarParser()
	result, err := p.Parse(context.Background(), []byte{}, "empty.go", LanguageGo, ParseOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Symbols)
	assert.Empty(t, result.Imports)
}

func TestParseUnsupportedLanguage(t *testing.T) {
	p := NewGrammarParser()
	_, err := p.Parse(context.Background(), []byte("x"), "f.rb", Language("ruby"), ParseOptions{})
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestParseSourceTooLarge(t *testing.T) {
	p := NewGrammarParser()
	big := make([]byte, 128)
	_, err := p.Parse(context.Background(), big, "big.go", LanguageGo, ParseOptions{MaxSourceBytes: 16})
	require.ErrorIs(t, err, ErrSourceTooLarge)
}

func TestParseFindsBothTopLevelFunctions(t *testing.T) {
	src := []byte(`package main

func A() {}
func B() {}
`)
	p := NewGrammarParser()
	result, err := p.Parse(context.Background(), src, "ab.go", LanguageGo, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, result.Symbols, 2)
}

// TestLevelOrderVisitsEachNodeOnceInNonDecreasingDepth walks a real
// parse tree breadth-first and checks the two level-order guarantees:
// every node is visited exactly once, and the depth sequence (distance
// from the root, counted via Parent) never decreases.
func TestLevelOrderVisitsEachNodeOnceInNonDecreasingDepth(t *testing.T) {
	src := []byte(`package main

func A() int {
	if true {
		return 1
	}
	return 2
}
`)
	parser := sitter.NewParser()
	parser.SetLanguage(languages[LanguageGo].grammar())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	require.NoError(t, err)
	defer tree.Close()

	depthOf := func(n *sitter.Node) int {
		d := 0
		for cur := n.Parent(); cur != nil; cur = cur.Parent() {
			d++
		}
		return d
	}

	type nodeKey struct {
		typ        string
		start, end uint32
	}
	seen := make(map[nodeKey]int)
	prevDepth := 0
	visits := 0
	LevelOrder(tree.RootNode(), func(n *sitter.Node) bool {
		visits++
		key := nodeKey{n.Type(), n.StartByte(), n.EndByte()}
		seen[key]++
		d := depthOf(n)
		require.GreaterOrEqual(t, d, prevDepth, "depth decreased at %s", n.Type())
		prevDepth = d
		return true
	})

	require.Greater(t, visits, 5)
	for key, count := range seen {
		assert.Equal(t, 1, count, "node %v visited more than once", key)
	}
}

func TestRingQueueGrowsAndDrainsEveryItem(t *testing.T) {
	q := newRingQueue()
	for i := 0; i < 20; i++ {
		q.push(nil)
	}
	count := 0
	for !q.empty() {
		q.pop()
		count++
	}
	assert.Equal(t, 20, count)
}
