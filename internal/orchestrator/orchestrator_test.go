// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package orchestrator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/AleutianAI/clewbraid/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractThenCompileProducesWireSchema(t *testing.T) {
	orch, err := New()
	require.NoError(t, err)

	src := []byte(`package main

type Config struct {
	Name string
}
`)
	set, err := orch.Extract(context.Background(), src, "go")
	require.NoError(t, err)
	require.False(t, set.Empty())

	ir, wire, err := orch.Compile(context.Background(), set)
	require.NoError(t, err)
	require.NotNil(t, ir)
	assert.NotEmpty(t, wire)
	assert.Contains(t, string(wire), `"version"`)
}

// TestInterfaceSourceCompilesToObjectSchema drives the full extract →
// compile path over a single TypeScript interface: the emitted schema
// requires id, and the optional age maps to integer.
func TestInterfaceSourceCompilesToObjectSchema(t *testing.T) {
	orch, err := New()
	require.NoError(t, err)

	src := []byte("interface U { id: string; age?: number }\n")
	set, err := orch.Extract(context.Background(), src, "typescript")
	require.NoError(t, err)

	_, wire, err := orch.Compile(context.Background(), set)
	require.NoError(t, err)

	var decoded struct {
		JSONSchema struct {
			Properties map[string]map[string]any `json:"properties"`
			Required   []string                  `json:"required"`
		} `json:"json_schema"`
	}
	require.NoError(t, json.Unmarshal(wire, &decoded))
	assert.Equal(t, []string{"id"}, decoded.JSONSchema.Required)
	assert.Equal(t, "string", decoded.JSONSchema.Properties["id"]["type"])
	assert.Equal(t, "integer", decoded.JSONSchema.Properties["age"]["type"])
}

func TestCompileCacheHitSkipsRecomputation(t *testing.T) {
	c, err := cache.New(8)
	require.NoError(t, err)

	orch, err := New(WithCache(c))
	require.NoError(t, err)

	src := []byte("package main\n\nfunc Run() {}\n")
	set, err := orch.Extract(context.Background(), src, "go")
	require.NoError(t, err)

	_, first, err := orch.Compile(context.Background(), set)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	ir, second, err := orch.Compile(context.Background(), set)
	require.NoError(t, err)
	assert.Nil(t, ir, "a cache hit should return the cached bytes without a recomputed IR")
	assert.Equal(t, first, second)
}

func TestRecompileAlwaysRunsThePipeline(t *testing.T) {
	c, err := cache.New(8)
	require.NoError(t, err)
	orch, err := New(WithCache(c))
	require.NoError(t, err)

	src := []byte("package main\n\nfunc Run() {}\n")
	set, err := orch.Extract(context.Background(), src, "go")
	require.NoError(t, err)

	_, _, err = orch.Compile(context.Background(), set)
	require.NoError(t, err)

	ir, wire, err := orch.Recompile(set)
	require.NoError(t, err)
	assert.NotNil(t, ir)
	assert.NotEmpty(t, wire)
}
