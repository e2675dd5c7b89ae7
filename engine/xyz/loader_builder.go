package xyz

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
)

// LoaderOption is a functional option for configuring a Loader via NewLoader.
type LoaderOption func(*loader)

// WithWorkerPool is an option builder that sets the worker pool parse tasks
// run on. Useful for sharing one pool across subsystems.
//
// Parameters:
//   - pool: the worker pool to use
//
// Returns:
//   - LoaderOption: a function that applies the pool option to a loader
func WithWorkerPool(pool worker.DynamicWorkerPool) LoaderOption {
	return func(l *loader) {
		if pool != nil {
			l.pool = pool
		}
	}
}

// WithResultBuffer is an option builder that sets the result channel depth.
// Values below 1 are treated as 1.
//
// Parameters:
//   - depth: the channel buffer size
//
// Returns:
//   - LoaderOption: a function that applies the buffer option to a loader
func WithResultBuffer(depth int) LoaderOption {
	return func(l *loader) {
		if depth < 1 {
			depth = 1
		}
		l.results = make(chan Result, depth)
	}
}
