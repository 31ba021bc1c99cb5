// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package number

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSequence is returned by Build when the entries do not describe
// exactly one tree.
var ErrMalformedSequence = errors.New("malformed leaf sequence")

// Entry is one regular number in traversal order. Depth counts the pairs
// enclosing the leaf, so the children of the root pair have depth 1.
type Entry struct {
	Depth int
	Value uint64
}

// Entries is a flattened tree: every leaf, left to right.
type Entries []Entry

// String renders the sequence as depth:value tokens, for diagnostics.
func (es Entries) String() string {
	var sb strings.Builder
	for i, e := range es {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d:%d", e.Depth, e.Value)
	}
	return sb.String()
}

// Flatten returns the in-order leaf sequence of n.
func Flatten(n Node) Entries {
	var out Entries
	// Explicit stack of (node, depth); right child pushed first so the left
	// subtree is visited first.
	type frame struct {
		node  Node
		depth int
	}
	stack := []frame{{n, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch v := f.node.(type) {
		case *Leaf:
			out = append(out, Entry{Depth: f.depth, Value: v.Value})
		case *Pair:
			stack = append(stack, frame{v.Right, f.depth + 1}, frame{v.Left, f.depth + 1})
		}
	}
	return out
}

// Build reconstructs the unique tree whose Flatten is es.
func Build(es Entries) (Node, error) {
	if len(es) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrMalformedSequence)
	}
	b := builder{entries: es}
	n, err := b.build(0)
	if err != nil {
		return nil, err
	}
	if b.pos != len(es) {
		return nil, fmt.Errorf("%w: %d trailing entries", ErrMalformedSequence, len(es)-b.pos)
	}
	return n, nil
}

type builder struct {
	entries Entries
	pos     int
}

func (b *builder) build(depth int) (Node, error) {
	if b.pos >= len(b.entries) {
		return nil, fmt.Errorf("%w: missing leaf at depth %d", ErrMalformedSequence, depth)
	}
	e := b.entries[b.pos]
	switch {
	case e.Depth == depth:
		b.pos++
		return &Leaf{Value: e.Value}, nil
	case e.Depth > depth:
		left, err := b.build(depth + 1)
		if err != nil {
			return nil, err
		}
		right, err := b.build(depth + 1)
		if err != nil {
			return nil, err
		}
		return &Pair{Left: left, Right: right}, nil
	default:
		return nil, fmt.Errorf("%w: entry %d has depth %d, expected at least %d",
			ErrMalformedSequence, b.pos, e.Depth, depth)
	}
}
