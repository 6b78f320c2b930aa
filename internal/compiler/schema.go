// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package compiler

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-openapi/strfmt"
)

// PropertyEntry is one named property of an object Schema. A slice of
// these, rather than a map, is what lets Schema.MarshalJSON preserve
// declaration order instead of the alphabetized order encoding/json
// would impose on a map[string]*Schema.
type PropertyEntry struct {
	Name   string
	Schema *Schema
}

// Schema is a hand-rolled JSON-Schema node. It exists instead of a
// generic schema library because the emitted document must preserve
// declared property order byte-for-byte, and no map-keyed marshaler can
// guarantee that through encoding/json's alphabetical key sort.
type Schema struct {
	Type       string
	Properties []PropertyEntry
	Required   []string
	Items      *Schema
	OneOf      []*Schema
	Pattern    string
	Format     string
	Minimum    *float64
	Maximum    *float64
}

// MarshalJSON writes the schema's keys in a fixed order, recursing into
// nested schemas through the same method so the whole document's key
// order is deterministic top to bottom.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	wrote := false
	writeKey := func(key string) {
		if wrote {
			buf.WriteByte(',')
		}
		wrote = true
		buf.WriteString(strconv.Quote(key))
		buf.WriteByte(':')
	}

	if s.Type != "" {
		writeKey("type")
		b, err := json.Marshal(s.Type)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	if len(s.Properties) > 0 {
		writeKey("properties")
		buf.WriteByte('{')
		for i, p := range s.Properties {
			if i > 0 {
				buf.WriteByte(',')
			}
			nameB, err := json.Marshal(p.Name)
			if err != nil {
				return nil, err
			}
			buf.Write(nameB)
			buf.WriteByte(':')
			valB, err := json.Marshal(p.Schema)
			if err != nil {
				return nil, err
			}
			buf.Write(valB)
		}
		buf.WriteByte('}')
	}
	if len(s.Required) > 0 {
		writeKey("required")
		b, err := json.Marshal(s.Required)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	if s.Items != nil {
		writeKey("items")
		b, err := json.Marshal(s.Items)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	if len(s.OneOf) > 0 {
		writeKey("oneOf")
		buf.WriteByte('[')
		for i, sub := range s.OneOf {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(sub)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
	}
	if s.Pattern != "" {
		writeKey("pattern")
		b, err := json.Marshal(s.Pattern)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	if s.Format != "" {
		writeKey("format")
		b, err := json.Marshal(s.Format)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	if s.Minimum != nil {
		writeKey("minimum")
		b, err := json.Marshal(*s.Minimum)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	if s.Maximum != nil {
		writeKey("maximum")
		b, err := json.Marshal(*s.Maximum)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var (
	propertyRe  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(\??)\s*:\s*(.+)$`)
	interfaceRe = regexp.MustCompile(`^interface\s+[A-Za-z_][A-Za-z0-9_]*\s*\{(.*)\}\s*$`)
	arrayGenRe  = regexp.MustCompile(`^Array<(.+)>$`)
	rangeRe     = regexp.MustCompile(`^range:(-?[0-9.]+)-(-?[0-9.]+)$`)
)

// fragment is one constraint's contribution to the cumulative top-level
// object schema: either a single named property, or a full set of
// properties (from an interface/object-literal description) to splice
// in directly.
type fragment struct {
	props    []PropertyEntry
	required []string
}

// parseFragment turns one type_safety constraint's description into the
// property fragment it contributes. A description with no recognizable
// property name falls back to the constraint's own Name.
func parseFragment(name, description string) fragment {
	desc := strings.TrimSpace(description)

	if m := interfaceRe.FindStringSubmatch(desc); m != nil {
		props, required := parsePropertyList(m[1])
		return fragment{props: props, required: required}
	}
	if strings.HasPrefix(desc, "{") && strings.HasSuffix(desc, "}") {
		props, required := parsePropertyList(desc[1 : len(desc)-1])
		return fragment{props: props, required: required}
	}
	if m := propertyRe.FindStringSubmatch(desc); m != nil {
		propName, optional, typeExpr := m[1], m[2] == "?", m[3]
		f := fragment{props: []PropertyEntry{{Name: propName, Schema: parseTypeExpr(typeExpr)}}}
		if !optional {
			f.required = []string{propName}
		}
		return f
	}

	// Array, union, or bare type with no property name attached: the
	// constraint's own name becomes the property key.
	if name == "" {
		name = "value"
	}
	return fragment{props: []PropertyEntry{{Name: name, Schema: parseTypeExpr(desc)}}, required: []string{name}}
}

// parsePropertyList splits an interface/object-literal body on ';' and
// ',' and parses each entry as a property declaration.
func parsePropertyList(body string) (props []PropertyEntry, required []string) {
	entries := strings.FieldsFunc(body, func(r rune) bool { return r == ';' || r == ',' })
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		m := propertyRe.FindStringSubmatch(e)
		if m == nil {
			continue
		}
		propName, optional, typeExpr := m[1], m[2] == "?", m[3]
		props = append(props, PropertyEntry{Name: propName, Schema: parseTypeExpr(typeExpr)})
		if !optional {
			required = append(required, propName)
		}
	}
	return props, required
}

// parseTypeExpr parses a type expression: Array<T>, T[], a union T | U,
// a nested object literal, or a bare type name.
func parseTypeExpr(expr string) *Schema {
	t := strings.TrimSpace(expr)
	t = strings.TrimSuffix(t, ";")
	t = strings.TrimSpace(t)

	if idx := strings.Index(t, "|"); idx >= 0 {
		parts := strings.Split(t, "|")
		oneOf := make([]*Schema, 0, len(parts))
		for _, p := range parts {
			oneOf = append(oneOf, parseTypeExpr(p))
		}
		return &Schema{OneOf: oneOf}
	}
	if m := arrayGenRe.FindStringSubmatch(t); m != nil {
		return &Schema{Type: "array", Items: parseTypeExpr(m[1])}
	}
	if strings.HasSuffix(t, "[]") {
		return &Schema{Type: "array", Items: parseTypeExpr(strings.TrimSuffix(t, "[]"))}
	}
	if strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") {
		props, required := parsePropertyList(t[1 : len(t)-1])
		return &Schema{Type: "object", Properties: props, Required: required}
	}
	return bareType(t)
}

// bareType maps a bare type token to its JSON-Schema form. "number"
// maps to integer. Unknown types degrade to string.
func bareType(token string) *Schema {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "string":
		return &Schema{Type: "string"}
	case "number", "integer":
		return &Schema{Type: "integer"}
	case "boolean":
		return &Schema{Type: "boolean"}
	case "null":
		return &Schema{Type: "null"}
	case "email":
		return &Schema{Type: "string", Format: "email"}
	case "uri", "url":
		return &Schema{Type: "string", Format: "uri"}
	case "date":
		return &Schema{Type: "string", Format: "date"}
	}

	if rest, ok := strings.CutPrefix(token, "pattern:"); ok {
		return &Schema{Type: "string", Pattern: rest}
	}
	if m := rangeRe.FindStringSubmatch(token); m != nil {
		min, errMin := strconv.ParseFloat(m[1], 64)
		max, errMax := strconv.ParseFloat(m[2], 64)
		if errMin == nil && errMax == nil {
			return &Schema{Type: "number", Minimum: &min, Maximum: &max}
		}
	}

	// The description grammar names formats by keyword ("email", "uri",
	// "date"); a description that instead embeds a literal example
	// value in place of a type name is recognized the same way a
	// sanitized log line recognizes a credential shape: by validating
	// the value itself rather than matching a keyword.
	switch {
	case strfmt.Default.Validates("email", token):
		return &Schema{Type: "string", Format: "email"}
	case strfmt.Default.Validates("uri", token):
		return &Schema{Type: "string", Format: "uri"}
	case strfmt.Default.Validates("date", token):
		return &Schema{Type: "string", Format: "date"}
	}
	return &Schema{Type: "string"}
}
