// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package number defines the snailfish number tree.
//
// A number is either a regular number (Leaf) or a Pair that exclusively owns
// its two children. Trees never share nodes and carry no parent pointers;
// operations that need to look sideways work on the flattened leaf sequence
// instead (see Flatten and Build).
package number

import (
	"strconv"
	"strings"

	"nickandperla.net/snailfish/internal/token"
)

// Node is the interface both tree variants implement.
type Node interface {
	// String returns the canonical bracketed form, without whitespace.
	String() string
	// IsLeaf reports whether the node is a regular number.
	IsLeaf() bool

	write(sb *strings.Builder)
}

// Leaf is a regular number.
type Leaf struct {
	Value uint64
}

func (l *Leaf) String() string { return strconv.FormatUint(l.Value, 10) }
func (l *Leaf) IsLeaf() bool   { return true }

func (l *Leaf) write(sb *strings.Builder) {
	sb.WriteString(strconv.FormatUint(l.Value, 10))
}

// Pair is a snailfish pair [Left,Right].
type Pair struct {
	Left  Node
	Right Node
}

func (p *Pair) String() string {
	var sb strings.Builder
	p.write(&sb)
	return sb.String()
}
func (p *Pair) IsLeaf() bool { return false }

func (p *Pair) write(sb *strings.Builder) {
	sb.WriteRune(token.RuneOpen)
	p.Left.write(sb)
	sb.WriteRune(token.RuneComma)
	p.Right.write(sb)
	sb.WriteRune(token.RuneClose)
}

// NewLeaf creates a regular number.
func NewLeaf(v uint64) *Leaf {
	return &Leaf{Value: v}
}

// NewPair creates a pair owning left and right.
func NewPair(left, right Node) *Pair {
	return &Pair{Left: left, Right: right}
}

// Clone returns a deep copy of n sharing no nodes with it.
func Clone(n Node) Node {
	switch n := n.(type) {
	case *Leaf:
		return &Leaf{Value: n.Value}
	case *Pair:
		return &Pair{Left: Clone(n.Left), Right: Clone(n.Right)}
	}
	return nil
}

// Equal reports whether a and b have the same shape and values.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *Leaf:
		bl, ok := b.(*Leaf)
		return ok && a.Value == bl.Value
	case *Pair:
		bp, ok := b.(*Pair)
		return ok && Equal(a.Left, bp.Left) && Equal(a.Right, bp.Right)
	}
	return false
}

// PairDepth returns the depth of the most deeply nested pair, counting the
// root pair as depth 0. A lone leaf has pair depth -1.
func PairDepth(n Node) int {
	p, ok := n.(*Pair)
	if !ok {
		return -1
	}
	return 1 + max(PairDepth(p.Left), PairDepth(p.Right))
}

// Leftmost returns the first regular number in traversal order.
func Leftmost(n Node) *Leaf {
	for {
		switch v := n.(type) {
		case *Leaf:
			return v
		case *Pair:
			n = v.Left
		default:
			return nil
		}
	}
}

// Rightmost returns the last regular number in traversal order.
func Rightmost(n Node) *Leaf {
	for {
		switch v := n.(type) {
		case *Leaf:
			return v
		case *Pair:
			n = v.Right
		default:
			return nil
		}
	}
}

// MaxValue returns the largest regular number in the tree.
func MaxValue(n Node) uint64 {
	var m uint64
	for _, e := range Flatten(n) {
		m = max(m, e.Value)
	}
	return m
}
