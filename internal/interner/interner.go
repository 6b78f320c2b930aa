// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package interner provides an arena-scoped string deduplicator for
// grammar literals and the static regex pool consulted by the IR
// compiler's regex emitter and hole-spec builder.
package interner

// Interner deduplicates byte strings for the lifetime of a single
// compilation. It is not safe for concurrent use: each compilation owns
// its own Interner, scoped and discarded the way a compilation owns its
// own graph scratch buffers.
type Interner struct {
	table map[string]string
}

// New creates an empty Interner.
func New() *Interner {
	return &Interner{table: make(map[string]string)}
}

// Intern returns a canonical copy of s: the first call with a given value
// allocates it, every subsequent call with an equal value returns the same
// string header. All interned memory is released together when the
// Interner is dropped (there is no per-string free).
func (in *Interner) Intern(s string) string {
	if canon, ok := in.table[s]; ok {
		return canon
	}
	// Copy s so the interner does not keep alive a larger backing array
	// the caller's string may have been sliced from.
	canon := string([]byte(s))
	in.table[canon] = canon
	return canon
}

// Len returns the number of distinct strings currently interned.
func (in *Interner) Len() int {
	return len(in.table)
}

// Strings returns every interned string in unspecified order.
func (in *Interner) Strings() []string {
	out := make([]string, 0, len(in.table))
	for _, s := range in.table {
		out = append(out, s)
	}
	return out
}
