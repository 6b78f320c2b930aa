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

import sitter "github.com/smacker/go-tree-sitter"

// Preorder visits every node in the subtree rooted at root, parent
// before children, left to right. visit returning false stops the
// traversal early without visiting that node's children or any sibling
// that follows in the overall walk order.
func Preorder(root *sitter.Node, visit func(*sitter.Node) bool) {
	var rec func(n *sitter.Node) bool
	rec = func(n *sitter.Node) bool {
		if n == nil {
			return true
		}
		if !visit(n) {
			return false
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if !rec(n.Child(i)) {
				return false
			}
		}
		return true
	}
	rec(root)
}

// Postorder visits every node in the subtree rooted at root, children
// before their parent, left to right.
func Postorder(root *sitter.Node, visit func(*sitter.Node)) {
	if root == nil {
		return
	}
	for i := 0; i < int(root.ChildCount()); i++ {
		Postorder(root.Child(i), visit)
	}
	visit(root)
}

// ringQueue is a power-of-two, mask-indexed circular buffer of
// *sitter.Node. It never shifts a flat slice on dequeue: head and tail
// wrap via a bitmask, and the backing array doubles in place when full.
// This is the queue LevelOrder drives for its breadth-first walk.
type ringQueue struct {
	buf        []*sitter.Node
	head, size int
}

func newRingQueue() *ringQueue {
	return &ringQueue{buf: make([]*sitter.Node, 8)}
}

func (q *ringQueue) mask() int { return len(q.buf) - 1 }

func (q *ringQueue) push(n *sitter.Node) {
	if q.size == len(q.buf) {
		q.grow()
	}
	tail := (q.head + q.size) & q.mask()
	q.buf[tail] = n
	q.size++
}

func (q *ringQueue) pop() *sitter.Node {
	n := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) & q.mask()
	q.size--
	return n
}

func (q *ringQueue) empty() bool { return q.size == 0 }

// grow doubles the backing array, relinearizing head to index 0 so the
// mask stays a simple power-of-two check after the resize.
func (q *ringQueue) grow() {
	next := make([]*sitter.Node, len(q.buf)*2)
	for i := 0; i < q.size; i++ {
		next[i] = q.buf[(q.head+i)&q.mask()]
	}
	q.buf = next
	q.head = 0
}

// LevelOrder performs a breadth-first traversal of the subtree rooted at
// root using a power-of-two ring buffer instead of a flat slice, so a
// deeply fanned-out tree never pays the O(n) cost of removing from the
// front of a growing list. visit returning false skips enqueuing that
// node's children; the nodes already queued are still visited.
func LevelOrder(root *sitter.Node, visit func(*sitter.Node) bool) {
	if root == nil {
		return
	}
	q := newRingQueue()
	q.push(root)
	for !q.empty() {
		n := q.pop()
		if !visit(n) {
			continue
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			q.push(n.Child(i))
		}
	}
}
