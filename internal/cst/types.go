// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cst parses source files into a concrete syntax tree via
// tree-sitter and extracts the named declarations the identifier stage
// mines syntactic constraints from. One grammar-driven Parser
// implementation serves every supported language; per-language behavior
// lives entirely in the node-type tables in language.go.
package cst

import (
	"context"
	"errors"
	"fmt"
)

// SymbolKind classifies a named declaration found in source.
type SymbolKind int

const (
	SymbolKindFunction SymbolKind = iota
	SymbolKindMethod
	SymbolKindClass
	SymbolKindInterface
	SymbolKindType
	SymbolKindImport
	SymbolKindVariable
	SymbolKindConstant
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolKindFunction:
		return "function"
	case SymbolKindMethod:
		return "method"
	case SymbolKindClass:
		return "class"
	case SymbolKindInterface:
		return "interface"
	case SymbolKindType:
		return "type"
	case SymbolKindImport:
		return "import"
	case SymbolKindVariable:
		return "variable"
	case SymbolKindConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// Location is a 1-indexed line, 0-indexed column span within a source
// file, matching tree-sitter's own point convention for columns.
type Location struct {
	StartLine int
	EndLine   int
	StartCol  int
	EndCol    int
}

// Symbol is a single named declaration extracted from a parse tree.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Receiver string // owning type's name for methods; GrammarParser leaves it empty
	Exported bool
	Location Location

	// Text holds the declaration's source text, whitespace-collapsed,
	// for interface- and type-kind symbols only. Downstream stages parse
	// it for shape information (property names and types); it is empty
	// for function/method/variable symbols, whose bodies carry no such
	// structure.
	Text string
}

// Import is a single import/require/use statement.
type Import struct {
	Path     string
	Alias    string
	Location Location
}

// CallSite is a function or method invocation, used by downstream
// dependency analysis this package does not itself perform but whose
// shape identifier extraction threads through unchanged.
type CallSite struct {
	Callee   string
	Receiver string
	Location Location
}

// ParseResult is everything extracted from one source file.
type ParseResult struct {
	FilePath string
	Language Language
	Hash     string
	Symbols  []*Symbol
	Imports  []Import
	Calls    []CallSite
	Errors   []string
}

// Validate reports whether the result is internally consistent: every
// symbol has a non-empty name and a well-formed location.
func (r *ParseResult) Validate() error {
	for _, sym := range r.Symbols {
		if sym.Name == "" {
			return fmt.Errorf("cst: symbol with empty name at line %d", sym.Location.StartLine)
		}
		if sym.Location.EndLine < sym.Location.StartLine {
			return fmt.Errorf("cst: symbol %q has end line %d before start line %d", sym.Name, sym.Location.EndLine, sym.Location.StartLine)
		}
	}
	return nil
}

// ParseOptions configures a single Parse call.
type ParseOptions struct {
	// MaxSourceBytes short-circuits parsing of files larger than this
	// many bytes with ErrSourceTooLarge. Zero means 10 MiB, the default
	// source-size threshold.
	MaxSourceBytes int
}

func (o ParseOptions) maxBytes() int {
	if o.MaxSourceBytes <= 0 {
		return 10 * 1024 * 1024
	}
	return o.MaxSourceBytes
}

// Parser extracts a ParseResult from source bytes in the given language.
type Parser interface {
	Parse(ctx context.Context, content []byte, filePath string, lang Language, opts ParseOptions) (*ParseResult, error)
}

var (
	// ErrUnsupportedLanguage is returned when no grammar is registered
	// for the requested Language.
	ErrUnsupportedLanguage = errors.New("cst: unsupported language")

	// ErrSourceTooLarge is returned when content exceeds ParseOptions'
	// MaxSourceBytes.
	ErrSourceTooLarge = errors.New("cst: source exceeds maximum size")

	// ErrParseTimeout is returned when ctx is canceled or exceeds its
	// deadline before tree-sitter finishes parsing.
	ErrParseTimeout = errors.New("cst: parse timed out")
)
