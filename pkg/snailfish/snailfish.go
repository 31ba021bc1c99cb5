package snailfish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"nickandperla.net/snailfish/internal/eval"
	"nickandperla.net/snailfish/internal/metrics"
	"nickandperla.net/snailfish/internal/number"
	"nickandperla.net/snailfish/internal/parser"
	"nickandperla.net/snailfish/internal/reduce"
	"nickandperla.net/snailfish/internal/search"
	"nickandperla.net/snailfish/internal/store"
)

// Node is a snailfish number.
type Node = number.Node

// List is a loaded master list of numbers.
type List = store.Memory

// Best is the result of a pair search.
type Best = search.Best

// ParseError describes malformed input.
type ParseError = parser.ParseError

// Errors reported by the engine.
var (
	ErrInvariantViolation  = reduce.ErrInvariantViolation
	ErrReductionDivergence = reduce.ErrReductionDivergence
	ErrOverflow            = reduce.ErrOverflow
	ErrInvalidOption       = errors.New("invalid option")
	ErrEmpty               = search.ErrEmpty
	ErrTooFew              = search.ErrTooFew
)

// Engine is the snailfish arithmetic engine.
type Engine struct {
	reducer       *reduce.Reducer
	searcher      *search.Searcher
	logger        *zap.Logger
	maxIterations int
	workers       int
	registry      *prometheus.Registry
}

// New creates a new engine with the given options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:        zap.NewNop(),
		maxIterations: reduce.DefaultMaxIterations,
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.maxIterations < 1 {
		return nil, fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidOption, e.maxIterations)
	}
	if e.workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidOption, e.workers)
	}

	// Build reducer options
	reduceOpts := []reduce.Option{
		reduce.WithMaxIterations(e.maxIterations),
		reduce.WithLogger(e.logger.Named("reduce")),
	}
	if e.registry != nil {
		rec, err := metrics.NewRecorder(e.registry)
		if err != nil {
			return nil, err
		}
		reduceOpts = append(reduceOpts, reduce.WithObserver(rec))
	}
	e.reducer = reduce.New(reduceOpts...)

	e.searcher = search.New(e.reducer,
		search.WithWorkers(e.workers),
		search.WithLogger(e.logger.Named("search")))

	return e, nil
}

// Parse converts bracketed text into a number.
func (e *Engine) Parse(text string) (Node, error) {
	return parser.Parse(text)
}

// ParseLine is Parse with errors reported against the given line number.
func (e *Engine) ParseLine(text string, line int) (Node, error) {
	return parser.ParseLine(text, line)
}

// Add returns the reduced sum of a and b. Both operands are consumed.
func (e *Engine) Add(a, b Node) (Node, error) {
	sum, err := e.reducer.Add(a, b)
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// Reduce normalizes n, rewriting it in place when it is a pair.
func (e *Engine) Reduce(n Node) (Node, error) {
	return e.reducer.Reduce(n)
}

// Magnitude returns the magnitude of n.
func (e *Engine) Magnitude(n Node) uint64 {
	return eval.Magnitude(n)
}

// Load reads one number per line from r. See store.Load for error handling.
func (e *Engine) Load(r io.Reader) (*List, error) {
	return store.Load(r)
}

// LoadFile reads one number per line from the file at path.
func (e *Engine) LoadFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return e.Load(f)
}

// Sum adds every number in list from left to right.
func (e *Engine) Sum(ctx context.Context, list *List) (Node, error) {
	return e.searcher.Sum(ctx, list)
}

// MaxPair finds the ordered pair of distinct numbers with the largest sum
// magnitude.
func (e *Engine) MaxPair(ctx context.Context, list *List) (Best, error) {
	return e.searcher.MaxPair(ctx, list)
}

// Workers returns the size of the search worker pool.
func (e *Engine) Workers() int {
	return e.searcher.Workers()
}

// ParseErrors extracts every *ParseError from an error returned by Load.
func ParseErrors(err error) []*ParseError {
	return store.ParseErrors(err)
}
