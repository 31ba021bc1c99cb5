// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package reduce normalizes snailfish numbers with the explode and split
// rules.
//
// Reduction works on the flattened leaf sequence rather than on the tree:
// neighbours in traversal order are adjacent entries, so an explode is a
// local edit of three slots. The tree is rebuilt once the sequence reaches
// its fixpoint.
package reduce

import (
	"errors"
	"fmt"
	"math/bits"

	"go.uber.org/zap"

	"nickandperla.net/snailfish/internal/number"
)

const (
	// ExplodeDepth is the pair depth at which a pair explodes.
	ExplodeDepth = 4
	// SplitThreshold is the smallest regular number that splits.
	SplitThreshold = 10
	// DefaultMaxIterations bounds a single reduction.
	DefaultMaxIterations = 100_000

	// leafDepth is the entry depth of the children of an exploding pair.
	leafDepth = ExplodeDepth + 1
)

var (
	// ErrInvariantViolation means an exploding pair did not hold two regular
	// numbers. It indicates a defect upstream, never bad user input.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrReductionDivergence means the iteration cap was reached.
	ErrReductionDivergence = errors.New("reduction did not converge")
	// ErrOverflow means an explode pushed a regular number past uint64.
	ErrOverflow = errors.New("regular number overflows uint64")
)

// Action identifies the rule applied by a single step.
type Action int

const (
	ActionNone Action = iota
	ActionExplode
	ActionSplit
)

// String returns the string representation of an Action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "NONE"
	case ActionExplode:
		return "EXPLODE"
	case ActionSplit:
		return "SPLIT"
	default:
		return "UNKNOWN"
	}
}

// Stats counts the work done by one reduction.
type Stats struct {
	Explodes   int
	Splits     int
	Iterations int
}

// Observer receives the outcome of every reduction.
type Observer interface {
	ObserveReduction(s Stats, err error)
}

// Reducer drives numbers to their reduced form.
type Reducer struct {
	maxIterations int
	logger        *zap.Logger
	observer      Observer
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithMaxIterations caps the number of rule applications per reduction.
func WithMaxIterations(n int) Option {
	return func(r *Reducer) { r.maxIterations = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reducer) { r.logger = l }
}

// WithObserver sets the observer notified after each reduction.
func WithObserver(o Observer) Option {
	return func(r *Reducer) { r.observer = o }
}

// New creates a new Reducer with the given options.
func New(opts ...Option) *Reducer {
	r := &Reducer{
		maxIterations: DefaultMaxIterations,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxIterations returns the configured iteration cap.
func (r *Reducer) MaxIterations() int {
	return r.maxIterations
}

// Add builds the pair [a,b] and reduces it. Both operands become children of
// the result; callers must not use them afterwards.
func (r *Reducer) Add(a, b number.Node) (*number.Pair, error) {
	p := number.NewPair(a, b)
	if _, err := r.Reduce(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Reduce applies explode and split until neither applies. When n is a pair
// it is rewritten in place and returned; a lone leaf that splits yields a new
// pair.
func (r *Reducer) Reduce(n number.Node) (number.Node, error) {
	es := number.Flatten(n)
	var stats Stats
	var err error
	for {
		next, action, applyErr := Apply(es)
		if applyErr != nil {
			err = applyErr
			break
		}
		if action == ActionNone {
			break
		}
		if stats.Iterations >= r.maxIterations {
			err = fmt.Errorf("%w after %d iterations", ErrReductionDivergence, stats.Iterations)
			break
		}
		es = next
		stats.Iterations++
		if action == ActionExplode {
			stats.Explodes++
		} else {
			stats.Splits++
		}
	}

	if r.observer != nil {
		r.observer.ObserveReduction(stats, err)
	}
	if err != nil {
		r.logger.Error("reduction failed",
			zap.Int("iterations", stats.Iterations),
			zap.Stringer("entries", es),
			zap.Error(err))
		return nil, err
	}
	r.logger.Debug("reduced",
		zap.Int("explodes", stats.Explodes),
		zap.Int("splits", stats.Splits))

	if stats.Iterations == 0 {
		return n, nil
	}
	return replace(n, es)
}

// Step applies at most one rule to n and reports which. The returned node
// follows the same in-place rules as Reduce.
func (r *Reducer) Step(n number.Node) (Action, number.Node, error) {
	es, action, err := Apply(number.Flatten(n))
	if err != nil || action == ActionNone {
		return action, n, err
	}
	out, err := replace(n, es)
	return action, out, err
}

// replace rebuilds the tree from es, reusing n's root when both are pairs.
func replace(n number.Node, es number.Entries) (number.Node, error) {
	built, err := number.Build(es)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	}
	dst, ok := n.(*number.Pair)
	src, ok2 := built.(*number.Pair)
	if !ok || !ok2 {
		return built, nil
	}
	dst.Left, dst.Right = src.Left, src.Right
	return dst, nil
}

// Apply performs the highest-priority applicable rule on es: the leftmost
// explode if any, otherwise the leftmost split. It returns the edited
// sequence, which may share storage with es.
func Apply(es number.Entries) (number.Entries, Action, error) {
	out, ok, err := Explode(es)
	if err != nil {
		return es, ActionNone, err
	}
	if ok {
		return out, ActionExplode, nil
	}
	if out, ok := Split(es); ok {
		return out, ActionSplit, nil
	}
	return es, ActionNone, nil
}

// Explode dissolves the leftmost pair nested inside four pairs. Its left
// value is added to the preceding regular number, its right value to the
// following one, and the pair becomes 0.
func Explode(es number.Entries) (number.Entries, bool, error) {
	i := -1
	for k, e := range es {
		if e.Depth >= leafDepth {
			i = k
			break
		}
	}
	if i < 0 {
		return es, false, nil
	}
	if es[i].Depth != leafDepth || i+1 >= len(es) || es[i+1].Depth != leafDepth {
		return es, false, fmt.Errorf("%w: pair at depth %d does not hold two regular numbers (%v)",
			ErrInvariantViolation, ExplodeDepth, es[i:min(i+2, len(es))])
	}

	lv, rv := es[i].Value, es[i+1].Value
	var left, right, carry uint64
	if i > 0 {
		left, carry = bits.Add64(es[i-1].Value, lv, 0)
	}
	if i+2 < len(es) && carry == 0 {
		right, carry = bits.Add64(es[i+2].Value, rv, 0)
	}
	if carry != 0 {
		return es, false, fmt.Errorf("%w: exploding %v", ErrOverflow, es[i:i+2])
	}
	if i > 0 {
		es[i-1].Value = left
	}
	if i+2 < len(es) {
		es[i+2].Value = right
	}
	es[i] = number.Entry{Depth: ExplodeDepth, Value: 0}
	return append(es[:i+1], es[i+2:]...), true, nil
}

// Split replaces the leftmost regular number of at least 10 with a pair of
// its halves, rounding the left down and the right up.
func Split(es number.Entries) (number.Entries, bool) {
	for i, e := range es {
		if e.Value < SplitThreshold {
			continue
		}
		halves := [2]number.Entry{
			{Depth: e.Depth + 1, Value: e.Value / 2},
			{Depth: e.Depth + 1, Value: e.Value - e.Value/2},
		}
		out := make(number.Entries, 0, len(es)+1)
		out = append(out, es[:i]...)
		out = append(out, halves[:]...)
		out = append(out, es[i+1:]...)
		return out, true
	}
	return es, false
}

// IsReduced reports whether n is already in reduced form.
func IsReduced(n number.Node) bool {
	for _, e := range number.Flatten(n) {
		if e.Depth > ExplodeDepth || e.Value >= SplitThreshold {
			return false
		}
	}
	return true
}
