// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package collaborator

import (
	"fmt"

	"github.com/awnumar/memguard"
)

// Credential holds a collaborator API key in a memguard-locked buffer so
// it never exists as a plain Go string that could be copied by the
// garbage collector or end up in a heap dump, a panic trace, or a log
// line formatted with %+v on the containing struct.
type Credential struct {
	buf *memguard.LockedBuffer
}

// NewCredential copies key into a locked buffer and wipes the caller's
// copy. Callers should not reuse key after this call.
func NewCredential(key []byte) *Credential {
	buf := memguard.NewBufferFromBytes(key)
	return &Credential{buf: buf}
}

// WithValue invokes fn with the credential's plaintext bytes, valid only
// for the duration of the call. fn must not retain the slice.
func (c *Credential) WithValue(fn func(value []byte)) {
	if c == nil || c.buf == nil || !c.buf.IsAlive() {
		fn(nil)
		return
	}
	fn(c.buf.Bytes())
}

// String never exposes the credential; it exists so accidentally
// logging a Credential cannot leak the key.
func (c *Credential) String() string {
	return fmt.Sprintf("Credential{locked, alive=%v}", c != nil && c.buf != nil && c.buf.IsAlive())
}

// Destroy wipes and releases the underlying buffer. Safe to call more
// than once.
func (c *Credential) Destroy() {
	if c != nil && c.buf != nil {
		c.buf.Destroy()
	}
}
