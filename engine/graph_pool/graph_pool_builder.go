package graph_pool

import (
	"log/slog"
	"time"
)

// PoolBuilderOption is a functional option for configuring a Pool via NewPool.
type PoolBuilderOption func(*pool)

// WithWorkers is an option builder that sets the number of update workers.
// Defaults to runtime.NumCPU() - 1 (minimum 1).
//
// Parameters:
//   - n: the number of workers (values below 1 are ignored)
//
// Returns:
//   - PoolBuilderOption: a function that applies the workers option to a pool
func WithWorkers(n int) PoolBuilderOption {
	return func(p *pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithQueueSize is an option builder that sets the worker pool's task queue size.
//
// Parameters:
//   - n: the queue size (values below 1 are ignored)
//
// Returns:
//   - PoolBuilderOption: a function that applies the queue size option to a pool
func WithQueueSize(n int) PoolBuilderOption {
	return func(p *pool) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithIdleTimeout is an option builder that sets how long an idle worker lingers before exiting.
//
// Parameters:
//   - d: the idle timeout
//
// Returns:
//   - PoolBuilderOption: a function that applies the timeout option to a pool
func WithIdleTimeout(d time.Duration) PoolBuilderOption {
	return func(p *pool) {
		if d > 0 {
			p.idleTimeout = d
		}
	}
}

// WithLogger is an option builder that sets the logger of the pool and of every graph it spawns.
//
// Parameters:
//   - logger: the structured logger; nil keeps the discarding default
//
// Returns:
//   - PoolBuilderOption: a function that applies the logger option to a pool
func WithLogger(logger *slog.Logger) PoolBuilderOption {
	return func(p *pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRootMotionIntegration is an option builder that controls whether each update's root
// motion delta is applied to the instance's world transform. Enabled by default.
//
// Parameters:
//   - enabled: whether to integrate root motion
//
// Returns:
//   - PoolBuilderOption: a function that applies the option to a pool
func WithRootMotionIntegration(enabled bool) PoolBuilderOption {
	return func(p *pool) {
		p.integrateRootMotion = enabled
	}
}
