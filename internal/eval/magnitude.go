// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval computes the magnitude of snailfish numbers.
package eval

import (
	"errors"
	"math"
	"math/bits"

	"nickandperla.net/snailfish/internal/number"
)

// Weights applied to the halves of a pair.
const (
	LeftWeight  = 3
	RightWeight = 2
)

// MaxMagnitude is the largest magnitude a parsed number may have. Any two
// such numbers can be added without a regular number leaving uint64: explode
// and split never raise the sum of the regular numbers, and that sum never
// exceeds the magnitude.
const MaxMagnitude = math.MaxUint64 / 2

// ErrOverflow means a magnitude does not fit in a uint64.
var ErrOverflow = errors.New("magnitude overflows uint64")

// Combine returns 3*l + 2*r, or ErrOverflow.
func Combine(l, r uint64) (uint64, error) {
	hi, left := bits.Mul64(LeftWeight, l)
	if hi != 0 {
		return 0, ErrOverflow
	}
	hi, right := bits.Mul64(RightWeight, r)
	if hi != 0 {
		return 0, ErrOverflow
	}
	sum, carry := bits.Add64(left, right, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Magnitude returns the weighted fold of n: a regular number is its own
// magnitude, a pair is 3*left + 2*right. n is not modified.
//
// Numbers from the parser or the reducer always fit. Magnitude panics if n
// was built some other way and overflows; use Checked for such trees.
func Magnitude(n number.Node) uint64 {
	m, err := Checked(n)
	if err != nil {
		panic(err)
	}
	return m
}

// Checked is Magnitude reporting overflow as ErrOverflow.
//
// The fold runs on an explicit stack so deep unreduced input cannot exhaust
// the goroutine stack.
func Checked(n number.Node) (uint64, error) {
	type frame struct {
		pair  *number.Pair
		stage int // 0: visit left, 1: visit right, 2: combine
	}
	var (
		stack  []frame
		values []uint64
	)
	visit := func(n number.Node) {
		switch v := n.(type) {
		case *number.Leaf:
			values = append(values, v.Value)
		case *number.Pair:
			stack = append(stack, frame{pair: v})
		}
	}

	visit(n)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		switch top.stage {
		case 0:
			top.stage++
			visit(top.pair.Left)
		case 1:
			top.stage++
			visit(top.pair.Right)
		default:
			stack = stack[:len(stack)-1]
			l, r := values[len(values)-2], values[len(values)-1]
			m, err := Combine(l, r)
			if err != nil {
				return 0, err
			}
			values = append(values[:len(values)-2], m)
		}
	}
	if len(values) == 0 {
		return 0, nil
	}
	return values[0], nil
}
