// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
	"github.com/spf13/cobra"
)

const diffContextLines = 3

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old-wire-schema.json> <new-wire-schema.json>",
		Short: "Unified diff between two to_wire_schema outputs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldDoc, err := readCompiledWireSchema(args[0])
			if err != nil {
				return err
			}
			newDoc, err := readCompiledWireSchema(args[1])
			if err != nil {
				return err
			}

			oldText, err := canonicalJSON(oldDoc)
			if err != nil {
				return fmt.Errorf("canonicalize %q: %w", args[0], err)
			}
			newText, err := canonicalJSON(newDoc)
			if err != nil {
				return fmt.Errorf("canonicalize %q: %w", args[1], err)
			}

			fd := &godiff.FileDiff{
				OrigName: args[0],
				NewName:  args[1],
				Hunks:    buildHunks(splitLines(oldText), splitLines(newText)),
			}
			if len(fd.Hunks) == 0 {
				fmt.Println("no differences")
				return nil
			}

			out, err := godiff.PrintFileDiff(fd)
			if err != nil {
				return fmt.Errorf("print diff: %w", err)
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
	return cmd
}

// canonicalJSON re-marshals a decoded wire schema with stable
// indentation so that semantically-identical documents with different
// source whitespace diff as identical.
func canonicalJSON(v map[string]any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

type lineOpType int

const (
	opContext lineOpType = iota
	opDelete
	opInsert
)

type lineOp struct {
	typ     lineOpType
	oldLine int // 0-indexed, valid for opContext/opDelete
	newLine int // 0-indexed, valid for opContext/opInsert
	text    string
}

// diffLines computes a minimal line-level edit script between a and b
// via the textbook O(n*m) longest-common-subsequence table. Wire
// schema documents are small (a handful of KB at most), so the
// quadratic cost is not a concern here.
func diffLines(a, b []string) []lineOp {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []lineOp
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, lineOp{typ: opContext, oldLine: i, newLine: j, text: a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, lineOp{typ: opDelete, oldLine: i, text: a[i]})
			i++
		default:
			ops = append(ops, lineOp{typ: opInsert, newLine: j, text: b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, lineOp{typ: opDelete, oldLine: i, text: a[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, lineOp{typ: opInsert, newLine: j, text: b[j]})
	}
	return ops
}

// buildHunks groups a line-level edit script into unified-diff hunks
// with diffContextLines of leading/trailing context, emitted as
// sourcegraph/go-diff Hunk/FileDiff values so PrintFileDiff handles
// the rendering.
func buildHunks(a, b []string) []*godiff.Hunk {
	ops := diffLines(a, b)

	var hunks []*godiff.Hunk
	var cur []lineOp
	lastChange := -1

	flush := func() {
		if len(cur) == 0 {
			return
		}
		hunks = append(hunks, toHunk(cur))
		cur = nil
	}

	for idx, op := range ops {
		isChange := op.typ != opContext
		if isChange && len(cur) == 0 {
			start := idx - diffContextLines
			if start < 0 {
				start = 0
			}
			cur = append(cur, ops[start:idx]...)
		}
		if len(cur) > 0 || isChange {
			cur = append(cur, op)
		}
		if isChange {
			lastChange = len(cur) - 1
		}
		if !isChange && len(cur) > 0 && len(cur)-1-lastChange > diffContextLines {
			trimTo := lastChange + diffContextLines + 1
			if trimTo < len(cur) {
				cur = cur[:trimTo]
			}
			flush()
			lastChange = -1
		}
	}
	flush()
	return hunks
}

func toHunk(ops []lineOp) *godiff.Hunk {
	var body bytes.Buffer
	var origStart, newStart int32 = -1, -1
	var origLines, newLines int32

	for _, op := range ops {
		switch op.typ {
		case opContext:
			if origStart < 0 {
				origStart = int32(op.oldLine) + 1
				newStart = int32(op.newLine) + 1
			}
			body.WriteString(" ")
			body.WriteString(op.text)
			body.WriteString("\n")
			origLines++
			newLines++
		case opDelete:
			if origStart < 0 {
				origStart = int32(op.oldLine) + 1
				newStart = 0
			}
			body.WriteString("-")
			body.WriteString(op.text)
			body.WriteString("\n")
			origLines++
		case opInsert:
			if newStart < 0 {
				newStart = int32(op.newLine) + 1
			}
			if origStart < 0 {
				origStart = 0
			}
			body.WriteString("+")
			body.WriteString(op.text)
			body.WriteString("\n")
			newLines++
		}
	}
	if origStart < 0 {
		origStart = 0
	}
	if newStart < 0 {
		newStart = 0
	}
	return &godiff.Hunk{
		OrigStartLine: origStart,
		OrigLines:     origLines,
		NewStartLine:  newStart,
		NewLines:      newLines,
		Body:          body.Bytes(),
	}
}
