// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package search sums a list of snailfish numbers and finds the pair whose
// sum has the largest magnitude.
package search

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nickandperla.net/snailfish/internal/eval"
	"nickandperla.net/snailfish/internal/number"
	"nickandperla.net/snailfish/internal/reduce"
	"nickandperla.net/snailfish/internal/store"
)

var (
	// ErrEmpty is returned when summing an empty list.
	ErrEmpty = errors.New("no numbers to sum")
	// ErrTooFew is returned when fewer than two numbers are available for
	// pairing.
	ErrTooFew = errors.New("need at least two numbers")
)

// Best is the winning ordered pair. Left and Right index the source list.
type Best struct {
	Magnitude uint64
	Left      int
	Right     int
}

// better reports whether b beats o. Equal magnitudes go to the smaller
// (Left, Right) so the outcome does not depend on scheduling.
func (b Best) better(o Best) bool {
	if b.Magnitude != o.Magnitude {
		return b.Magnitude > o.Magnitude
	}
	if b.Left != o.Left {
		return b.Left < o.Left
	}
	return b.Right < o.Right
}

// Searcher runs additions over a master list.
type Searcher struct {
	reducer *reduce.Reducer
	workers int
	logger  *zap.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithWorkers sets the size of the worker pool. Values below 1 select
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(s *Searcher) { s.workers = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Searcher) { s.logger = l }
}

// New creates a Searcher that adds with r.
func New(r *reduce.Reducer, opts ...Option) *Searcher {
	s := &Searcher{
		reducer: r,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.NumCPU()
	}
	return s
}

// Workers returns the effective pool size.
func (s *Searcher) Workers() int {
	return s.workers
}

// Sum adds every number in src from left to right and returns the reduced
// total. src itself is not modified.
func (s *Searcher) Sum(ctx context.Context, src store.Source) (number.Node, error) {
	n := src.Len()
	if n == 0 {
		return nil, ErrEmpty
	}
	acc, err := s.reducer.Reduce(src.Get(0))
	if err != nil {
		return nil, fmt.Errorf("reducing number 0: %w", err)
	}
	for i := 1; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		acc, err = s.reducer.Add(acc, src.Get(i))
		if err != nil {
			return nil, fmt.Errorf("adding number %d: %w", i, err)
		}
	}
	s.logger.Debug("sum complete", zap.Int("numbers", n))
	return acc, nil
}

// PairMagnitude adds private copies of src[i] and src[j] and returns the
// magnitude of the result.
func (s *Searcher) PairMagnitude(src store.Source, i, j int) (uint64, error) {
	sum, err := s.reducer.Add(src.Get(i), src.Get(j))
	if err != nil {
		return 0, fmt.Errorf("adding numbers %d and %d: %w", i, j, err)
	}
	return eval.Magnitude(sum), nil
}

// MaxPair evaluates every ordered pair (i, j) with i != j and returns the one
// with the largest magnitude. Rows of the pair matrix are spread across the
// worker pool; the first error cancels the rest.
func (s *Searcher) MaxPair(ctx context.Context, src store.Source) (Best, error) {
	n := src.Len()
	if n < 2 {
		return Best{}, ErrTooFew
	}

	var (
		mu    sync.Mutex
		best  Best
		found bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := 0; i < n; i++ {
		i := i // per-iteration copy; go.mod targets go1.21
		g.Go(func() error {
			var local Best
			localFound := false
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				m, err := s.PairMagnitude(src, i, j)
				if err != nil {
					return err
				}
				c := Best{Magnitude: m, Left: i, Right: j}
				if !localFound || c.better(local) {
					local, localFound = c, true
				}
			}
			mu.Lock()
			if !found || local.better(best) {
				best, found = local, true
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Best{}, err
	}

	s.logger.Debug("max pair found",
		zap.Uint64("magnitude", best.Magnitude),
		zap.Int("left", best.Left),
		zap.Int("right", best.Right),
		zap.Int("pairs", n*(n-1)),
		zap.Int("workers", s.workers))
	return best, nil
}
