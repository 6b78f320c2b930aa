// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package sanitizer normalizes constraint names and descriptions before
// they are stored on a Constraint or emitted into a ConstraintIR. Every
// function here is total: there is no input for which Name or
// Description can fail to sanitize.
package sanitizer

import "strings"

const (
	// MaxNameLen is the maximum length of a sanitized name.
	MaxNameLen = 64

	// MaxDescriptionLen is the maximum length, in output bytes, of a
	// sanitized description.
	MaxDescriptionLen = 512

	// unnamedFallback is returned by Name when sanitizing strips every
	// byte of the input.
	unnamedFallback = "unnamed"
)

// Name keeps only [A-Za-z0-9_-], substitutes every other byte with '_',
// truncates to MaxNameLen, and falls back to "unnamed" if the result would
// be empty.
//
// Name never fails: for every input byte string, the result is a non-empty
// string of length <= MaxNameLen drawn entirely from [A-Za-z0-9_-].
func Name(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s) && b.Len() < MaxNameLen; i++ {
		c := s[i]
		if isNameByte(c) {
			b.WriteByte(c)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return unnamedFallback
	}
	return out
}

func isNameByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	default:
		return false
	}
}

// Description escapes '"', '\\', '\n', '\r', '\t', replaces other control
// bytes (0x00-0x1F excluding the three escaped above, and 0x7F) with a
// single space, and truncates the escaped output to MaxDescriptionLen
// bytes.
//
// Description never fails: for every input byte string, the result
// contains no raw '"' or '\\' and no control byte other than the escape
// sequences \n, \r, \t, and is at most MaxDescriptionLen bytes long.
func Description(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		var piece string
		switch c := s[i]; c {
		case '"':
			piece = `\"`
		case '\\':
			piece = `\\`
		case '\n':
			piece = `\n`
		case '\r':
			piece = `\r`
		case '\t':
			piece = `\t`
		default:
			if isOtherControl(c) {
				piece = " "
			} else {
				piece = string(c)
			}
		}
		// Never write a partial escape sequence: stop before a piece
		// that would push the output past the byte cap.
		if b.Len()+len(piece) > MaxDescriptionLen {
			break
		}
		b.WriteString(piece)
	}
	return b.String()
}

// isOtherControl reports whether c is a control byte that Description
// must replace with a space rather than pass through or escape: 0x00-0x1F
// excluding \t\n\r, plus DEL (0x7F).
func isOtherControl(c byte) bool {
	if c == 0x7F {
		return true
	}
	if c >= 0x00 && c <= 0x1F {
		switch c {
		case '\t', '\n', '\r':
			return false
		default:
			return true
		}
	}
	return false
}
