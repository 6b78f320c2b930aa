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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var cstTracer = otel.Tracer("clewbraid/internal/cst")

// GrammarParser is the single Parser implementation serving every
// supported Language; behavior for a given language comes entirely from
// its entry in the languages table, replacing five hand-written,
// largely duplicated parsers with one data-driven tree-sitter walk.
type GrammarParser struct{}

// NewGrammarParser constructs a GrammarParser. It holds no state and is
// safe for concurrent use; each Parse call creates its own tree-sitter
// parser instance.
func NewGrammarParser() *GrammarParser {
	return &GrammarParser{}
}

// Parse extracts symbols, imports, and call sites from content for the
// given language.
func (p *GrammarParser) Parse(ctx context.Context, content []byte, filePath string, lang Language, opts ParseOptions) (*ParseResult, error) {
	ctx, span := cstTracer.Start(ctx, "cst.Parse", trace.WithAttributes(
		attribute.String("language", string(lang)),
		attribute.Int("bytes", len(content)),
	))
	defer span.End()

	spec, ok := languages[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	if len(content) > opts.maxBytes() {
		return nil, fmt.Errorf("%w: %d bytes", ErrSourceTooLarge, len(content))
	}

	hash := sha256.Sum256(content)
	result := &ParseResult{
		FilePath: filePath,
		Language: lang,
		Hash:     hex.EncodeToString(hash[:]),
		Symbols:  make([]*Symbol, 0),
		Imports:  make([]Import, 0),
		Calls:    make([]CallSite, 0),
		Errors:   make([]string, 0),
	}
	if len(content) == 0 {
		return result, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(spec.grammar())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("cst: tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseTimeout, err)
	}

	walk(tree.RootNode(), content, spec, result)

	if err := result.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
	return result, nil
}

// walk performs a pre-order traversal of root, appending a Symbol,
// Import, or CallSite to result for every node whose type matches an
// entry in spec.
func walk(root *sitter.Node, src []byte, spec langSpec, result *ParseResult) {
	Preorder(root, func(n *sitter.Node) bool {
		t := n.Type()
		if spec.importTypes[t] {
			result.Imports = append(result.Imports, importFrom(n, src))
			return true
		}
		if rule, ok := spec.decls[t]; ok {
			if sym := symbolFrom(n, src, rule, spec); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
			return true
		}
		if t == spec.callNodeType {
			result.Calls = append(result.Calls, callFrom(n, src))
		}
		return true
	})
}

func locationOf(n *sitter.Node) Location {
	return Location{
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		StartCol:  int(n.StartPoint().Column),
		EndCol:    int(n.EndPoint().Column),
	}
}

func symbolFrom(n *sitter.Node, src []byte, rule declRule, spec langSpec) *Symbol {
	name := fieldOrFirstIdent(n, src, rule.nameField)
	if name == "" {
		return nil
	}
	sym := &Symbol{
		Name:     name,
		Kind:     rule.kind,
		Location: locationOf(n),
	}
	if rule.kind == SymbolKindInterface || rule.kind == SymbolKindType {
		sym.Text = strings.Join(strings.Fields(n.Content(src)), " ")
	}
	if spec.exportPrefix == "upper" {
		r, _ := utf8.DecodeRuneInString(name)
		sym.Exported = unicode.IsUpper(r)
	} else {
		sym.Exported = true
	}
	return sym
}

func fieldOrFirstIdent(n *sitter.Node, src []byte, field string) string {
	if field != "" {
		if c := n.ChildByFieldName(field); c != nil {
			return c.Content(src)
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "identifier" || c.Type() == "type_identifier" || c.Type() == "field_identifier" {
			return c.Content(src)
		}
	}
	return ""
}

func importFrom(n *sitter.Node, src []byte) Import {
	return Import{Path: n.Content(src), Location: locationOf(n)}
}

func callFrom(n *sitter.Node, src []byte) CallSite {
	callee := ""
	if c := n.ChildByFieldName("function"); c != nil {
		callee = c.Content(src)
	}
	return CallSite{Callee: callee, Location: locationOf(n)}
}
