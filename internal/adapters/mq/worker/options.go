package worker

import (
	"github.com/onto-project/ontobench/pkg/logger"
)

// Option applies a configuration option to the EvalWorker.
type Option func(*EvalWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *EvalWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *EvalWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
