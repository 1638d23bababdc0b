// Package service wires the benchmark components together and implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	subqueue "github.com/onto-project/ontobench/internal/adapters/mq/queue"
	workerpool "github.com/onto-project/ontobench/internal/adapters/mq/worker"
	"github.com/onto-project/ontobench/internal/adapters/repository"
	"github.com/onto-project/ontobench/internal/domain/dedupe"
	"github.com/onto-project/ontobench/internal/domain/eval"
	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/pkg/logger"
	"github.com/onto-project/ontobench/pkg/metrics"
)

// Service implements the API dependencies for the benchmark leaderboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	leaderboard repository.Store
	deduper     dedupe.Deduper
	queue       subqueue.Queue
	engine      *eval.Engine
	workerPool  *workerpool.Pool
	truth       model.GroundTruth

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	primaryMetric string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of evaluation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithGroundTruth sets the ground-truth mapping predictions are scored
// against. Required before Start.
func WithGroundTruth(gt model.GroundTruth) Option {
	return func(s *Service) {
		s.truth = gt
	}
}

// WithEngine overrides the default evaluation engine.
func WithEngine(e *eval.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithPrimaryMetric sets the leaderboard ranking metric.
func WithPrimaryMetric(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.primaryMetric = name
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     10000,
		dedupeSize:    100000,
		primaryMetric: repository.DefaultPrimaryMetric,
		engine:        eval.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	key, err := repository.SortKeyFor(s.primaryMetric)
	if err != nil {
		return err
	}
	s.leaderboard = repository.NewMemStore(repository.WithSortKey(key))
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = subqueue.NewInMemoryQueue(
		subqueue.WithCapacity(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.engine, s.leaderboard, s.truth)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "benchmark service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("groundTruthSamples", len(s.truth)),
		logger.String("primaryMetric", s.primaryMetric),
	)
	return nil
}

// Stop gracefully shuts down the service. Queued submissions are drained
// by the workers before they exit.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(ctx, "stopping benchmark service")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "benchmark service stopped")
}

// SeenAndRecord atomically checks whether a submission id was seen and
// records it if not. Returns true if the id was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSubmissionDuplicate()
	}
	return seen
}

// Unrecord removes a submission id from the seen set so it can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue hands a submission to the evaluation pipeline. Returns false on
// backpressure; the caller decides whether to roll back the dedupe record.
func (s *Service) Enqueue(ctx context.Context, sub model.Submission) bool {
	ok := s.queue.Enqueue(ctx, sub)
	if ok {
		metrics.RecordSubmissionAccepted()
		s.logger.Debug(ctx, "submission enqueued",
			logger.String("submissionID", sub.ID),
			logger.String("model", sub.Model),
			logger.Int("predictions", len(sub.Predictions)),
		)
	}
	return ok
}

// TopN returns the top N leaderboard entries in rank order.
func (s *Service) TopN(ctx context.Context, n int) ([]model.LeaderboardEntry, error) {
	return s.leaderboard.TopN(ctx, n)
}

// Rank returns the leaderboard entry for a model name.
func (s *Service) Rank(ctx context.Context, modelName string) (model.LeaderboardEntry, error) {
	return s.leaderboard.Rank(ctx, modelName)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["leaderboardSize"] = s.leaderboard.Count(ctx)
		stats["groundTruthSamples"] = len(s.truth)
		stats["dedupeTracked"] = s.deduper.Size()
	}
	return stats
}

// Size returns the number of submission ids currently tracked for dedupe.
func (s *Service) Size() int {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
