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
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// Language identifies a supported source language.
type Language string

const (
	LanguageTypeScript Language = "typescript"
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageGo         Language = "go"
)

// declRule gives, for one tree-sitter node type that names a
// declaration, the SymbolKind and the field that declaration's name
// lives under (langSpec.decls maps node types to their declRule).
// nameField is the tree-sitter field name to resolve via
// node.ChildByFieldName; an empty nameField means "first identifier
// child."
type declRule struct {
	kind      SymbolKind
	nameField string
}

// langSpec is one language's parsing table: its grammar, declaration
// node types, the node types treated as import/require/use statements
// (importTypes), and its call-expression node type.
type langSpec struct {
	grammar      func() *sitter.Language
	decls        map[string]declRule
	importTypes  map[string]bool
	callNodeType string
	exportPrefix string // identifier casing rule used to infer Exported, e.g. "upper" for Go
}

var languages = map[Language]langSpec{
	LanguageGo: {
		grammar: golang.GetLanguage,
		decls: map[string]declRule{
			"function_declaration": {SymbolKindFunction, "name"},
			"method_declaration":   {SymbolKindMethod, "name"},
			"type_spec":            {SymbolKindType, "name"},
			"const_spec":           {SymbolKindConstant, ""},
			"var_spec":             {SymbolKindVariable, ""},
		},
		importTypes:  map[string]bool{"import_spec": true},
		callNodeType: "call_expression",
		exportPrefix: "upper",
	},
	LanguageTypeScript: {
		grammar: tsx.GetLanguage,
		decls: map[string]declRule{
			"function_declaration":   {SymbolKindFunction, "name"},
			"method_definition":      {SymbolKindMethod, "name"},
			"class_declaration":      {SymbolKindClass, "name"},
			"interface_declaration":  {SymbolKindInterface, "name"},
			"type_alias_declaration": {SymbolKindType, "name"},
			"variable_declarator":    {SymbolKindVariable, "name"},
		},
		importTypes:  map[string]bool{"import_statement": true},
		callNodeType: "call_expression",
	},
	LanguageJavaScript: {
		grammar: javascript.GetLanguage,
		decls: map[string]declRule{
			"function_declaration": {SymbolKindFunction, "name"},
			"method_definition":    {SymbolKindMethod, "name"},
			"class_declaration":    {SymbolKindClass, "name"},
			"variable_declarator":  {SymbolKindVariable, "name"},
		},
		importTypes:  map[string]bool{"import_statement": true},
		callNodeType: "call_expression",
	},
	LanguagePython: {
		grammar: python.GetLanguage,
		decls: map[string]declRule{
			"function_definition": {SymbolKindFunction, "name"},
			"class_definition":    {SymbolKindClass, "name"},
		},
		importTypes:  map[string]bool{"import_statement": true, "import_from_statement": true},
		callNodeType: "call",
	},
	LanguageRust: {
		grammar: rust.GetLanguage,
		decls: map[string]declRule{
			"function_item": {SymbolKindFunction, "name"},
			"struct_item":   {SymbolKindType, "name"},
			"enum_item":     {SymbolKindType, "name"},
			"trait_item":    {SymbolKindInterface, "name"},
			"impl_item":     {SymbolKindClass, "type"},
			"const_item":    {SymbolKindConstant, "name"},
		},
		importTypes:  map[string]bool{"use_declaration": true},
		callNodeType: "call_expression",
	},
}
