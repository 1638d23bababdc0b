// Package worker runs the asynchronous evaluation pipeline: submissions
// are pulled off the queue, scored against the ground truth and pushed
// onto the leaderboard.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/pkg/logger"
	"github.com/onto-project/ontobench/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Evaluator computes a Metrics record for a prediction set.
type Evaluator interface {
	Metrics(modelName string, gt model.GroundTruth, preds []model.Prediction) model.Metrics
}

// Ranker upserts an evaluated entry onto the leaderboard.
type Ranker interface {
	Submit(ctx context.Context, entry model.LeaderboardEntry) (model.LeaderboardEntry, error)
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Submission
}

// Worker processes queued submissions until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// EvalWorker implements Worker for evaluating submissions.
type EvalWorker struct {
	queue     Queue
	evaluator Evaluator
	ranker    Ranker
	truth     model.GroundTruth
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewEvalWorker creates a worker bound to a queue, evaluator and ranker.
// The ground truth is fixed for the lifetime of the worker.
func NewEvalWorker(queue Queue, evaluator Evaluator, ranker Ranker, truth model.GroundTruth, opts ...Option) *EvalWorker {
	w := &EvalWorker{
		queue:     queue,
		evaluator: evaluator,
		ranker:    ranker,
		truth:     truth,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *EvalWorker) Run(ctx context.Context) {
	defer close(w.done)

	subs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			w.drain(ctx, subs)
			return
		case sub, ok := <-subs:
			if !ok {
				// Queue closed, nothing more to process.
				return
			}
			if err := w.process(ctx, sub); err != nil {
				w.logger.Error(ctx, "submission processing failed",
					logger.String("submissionID", sub.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// drain processes submissions already buffered on the queue channel
// without waiting for new ones, so a graceful shutdown does not lose
// accepted work.
func (w *EvalWorker) drain(ctx context.Context, subs <-chan model.Submission) {
	for {
		select {
		case sub, ok := <-subs:
			if !ok {
				return
			}
			if err := w.process(ctx, sub); err != nil {
				w.logger.Error(ctx, "submission processing failed",
					logger.String("submissionID", sub.ID),
					logger.Error(err),
				)
			}
		default:
			return
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *EvalWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process evaluates one submission and publishes the result.
func (w *EvalWorker) process(ctx context.Context, sub model.Submission) error {
	start := time.Now()
	m := w.evaluator.Metrics(sub.Model, w.truth, sub.Predictions)
	metrics.RecordEvaluationLatency(float64(time.Since(start).Milliseconds()))

	entry := model.LeaderboardEntry{
		Model:        sub.Model,
		Organization: sub.Organization,
		Verified:     sub.Verified,
		SubmittedAt:  sub.SubmittedAt.UTC().Format(time.RFC3339),
		Metrics:      m,
	}
	ranked, err := w.ranker.Submit(ctx, entry)
	if err != nil {
		metrics.RecordEvaluationError()
		return fmt.Errorf("leaderboard submit failed for %s: %w", sub.ID, err)
	}

	w.logger.Info(ctx, "submission evaluated",
		logger.String("submissionID", sub.ID),
		logger.String("model", sub.Model),
		logger.Int("rank", ranked.Rank),
		logger.Int("samples", m.NSamples),
		logger.Float64("u_f1", m.UF1),
	)
	return nil
}

// Pool manages a fixed set of evaluation workers.
type Pool struct {
	workers []*EvalWorker

	logger logger.Logger
}

// NewPool creates workerCount workers over the same queue. A count below
// one falls back to a CPU-based default.
func NewPool(workerCount int, queue Queue, evaluator Evaluator, ranker Ranker, truth model.GroundTruth) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*EvalWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewEvalWorker(
			queue,
			evaluator,
			ranker,
			truth,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches every worker in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown stops all workers, waiting up to the per-worker timeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, w := range p.workers {
		wctx, cancel := context.WithTimeout(ctx, workerShutdownTimeout)
		if err := w.Shutdown(wctx); err != nil && firstErr == nil {
			firstErr = err
		}
		cancel()
	}
	metrics.UpdateWorkerCount(0)
	return firstErr
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}
