// Package snailfish provides the public API for snailfish arithmetic.
package snailfish

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"nickandperla.net/snailfish/internal/config"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMaxIterations caps rule applications per reduction.
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		e.maxIterations = n
	}
}

// WithWorkers sets the pair search worker pool size (0 = one per CPU).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithMetrics registers reduction metrics on reg.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithConfig applies reducer and search settings from cfg.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.maxIterations = cfg.Reduce.MaxIterations
		e.workers = cfg.Search.Workers
	}
}
