// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import (
	"context"
	"testing"

	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSet() *constraint.ConstraintSet {
	set := constraint.NewConstraintSet("test")
	set.Add(constraint.NewConstraint("a", "interface A { x: string }", constraint.KindTypeSafety, constraint.SourceUserDefined, constraint.SeverityWarning))
	set.Add(constraint.NewConstraint("b", "", constraint.KindSyntactic, constraint.SourceUserDefined, constraint.SeverityError))
	return set
}

// TestComputeIgnoresGeneratedID: two sets built with the same
// kind/source/name/description/severity/enabled content, but distinct
// generated constraint IDs, fingerprint identically — the property
// cache coherence across recompiles depends on.
func TestComputeIgnoresGeneratedID(t *testing.T) {
	fp1 := Compute(buildSet())
	fp2 := Compute(buildSet())
	assert.Equal(t, fp1, fp2)
}

func TestComputeDiffersOnContentChange(t *testing.T) {
	a := buildSet()
	b := buildSet()
	b.Constraints[0].Enabled = false
	assert.NotEqual(t, Compute(a), Compute(b))
}

func TestCacheGetPutRoundTrip(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	fp := Compute(buildSet())
	_, ok := c.Get(context.Background(), fp)
	assert.False(t, ok)

	c.Put(context.Background(), fp, []byte(`{"type":"guidance"}`))
	wire, ok := c.Get(context.Background(), fp)
	require.True(t, ok)
	assert.Equal(t, `{"type":"guidance"}`, string(wire))
}

type fakeDisk struct {
	store map[Fingerprint][]byte
}

func (f *fakeDisk) Get(fp Fingerprint) ([]byte, bool, error) {
	v, ok := f.store[fp]
	return v, ok, nil
}

func (f *fakeDisk) Put(fp Fingerprint, wire []byte) error {
	f.store[fp] = wire
	return nil
}

func TestCachePromotesDiskHitToMemory(t *testing.T) {
	disk := &fakeDisk{store: map[Fingerprint][]byte{}}
	c, err := New(4, WithDisk(disk))
	require.NoError(t, err)

	fp := Compute(buildSet())
	disk.store[fp] = []byte("from-disk")

	wire, ok := c.Get(context.Background(), fp)
	require.True(t, ok)
	assert.Equal(t, "from-disk", string(wire))
	assert.Equal(t, 1, c.Len())
}
