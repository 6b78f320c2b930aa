// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache implements the content-addressed compile cache: an
// in-memory LRU keyed by a fingerprint of the serialized ConstraintSet,
// with optional disk and remote backing stores.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"github.com/AleutianAI/clewbraid/internal/constraint"
)

// Fingerprint is the 64-bit content key: the leading 8 bytes of a
// SHA-256 digest over the set's stable-order serialization, not a
// weaker 64-bit hash (FNV, CRC) computed directly. Truncating a
// collision-resistant digest keeps accidental fingerprint collisions
// between unrelated ConstraintSets astronomically unlikely while still
// fitting in a 64-bit key.
type Fingerprint uint64

// String renders the fingerprint as lowercase hex without leading
// zeros. Disk and remote object keys use the zero-padded 16-digit form
// from hexKey instead.
func (f Fingerprint) String() string {
	return strconv.FormatUint(uint64(f), 16)
}

// Compute derives the fingerprint of set. Two sets with the same
// constraints in the same order, regardless of their generated IDs
// (which are excluded — an ID is an opaque, per-extraction identifier,
// not semantic content), fingerprint identically.
func Compute(set *constraint.ConstraintSet) Fingerprint {
	h := sha256.New()
	for _, c := range set.Constraints {
		h.Write([]byte(c.Kind))
		h.Write([]byte{0})
		h.Write([]byte(c.Source))
		h.Write([]byte{0})
		h.Write([]byte(c.Name))
		h.Write([]byte{0})
		h.Write([]byte(c.Description))
		h.Write([]byte{0})
		var sev [8]byte
		binary.BigEndian.PutUint64(sev[:], uint64(c.Severity))
		h.Write(sev[:])
		if c.Enabled {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		h.Write([]byte{'\n'})
	}
	sum := h.Sum(nil)
	return Fingerprint(binary.BigEndian.Uint64(sum[:8]))
}

// hexKey is a convenience used by the disk/remote stores, which prefer
// a readable object key over raw fingerprint bytes.
func hexKey(f Fingerprint) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(f))
	return hex.EncodeToString(b[:])
}
