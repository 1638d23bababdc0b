package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/pkg/metrics"
)

// DefaultPrimaryMetric orders the leaderboard by unknown-detection F1.
const DefaultPrimaryMetric = "unknown_f1"

// SortKey extracts the ranking value from a metrics record. Higher sorts
// first.
type SortKey func(model.Metrics) float64

// SortKeyFor resolves a configured metric name to its extractor.
func SortKeyFor(name string) (SortKey, error) {
	switch name {
	case "", DefaultPrimaryMetric:
		return func(m model.Metrics) float64 { return m.UF1 }, nil
	case "contradiction_f1":
		return func(m model.Metrics) float64 { return m.CF1 }, nil
	case "macro_f1":
		return func(m model.Metrics) float64 { return m.MacroF1 }, nil
	case "accuracy":
		return func(m model.Metrics) float64 { return m.Accuracy }, nil
	default:
		return nil, ErrUnknownMetric
	}
}

// Option applies a configuration option to the in-memory store.
type Option func(*MemStore)

// WithSortKey overrides the primary ranking metric.
func WithSortKey(key SortKey) Option {
	return func(s *MemStore) {
		if key != nil {
			s.key = key
		}
	}
}

// row pairs an entry with its insertion sequence, which breaks sort ties
// so ranks are stable across identical re-submissions.
type row struct {
	entry model.LeaderboardEntry
	seq   int
}

// MemStore is an in-memory leaderboard. The whole read-modify-sort-write
// cycle of Submit runs under one lock: concurrent submissions never
// interleave the read and write phases.
type MemStore struct {
	mu   sync.RWMutex
	rows []row
	key  SortKey
	next int
}

// NewMemStore creates an empty leaderboard store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{}
	s.key, _ = SortKeyFor(DefaultPrimaryMetric)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit implements Store.
func (s *MemStore) Submit(_ context.Context, entry model.LeaderboardEntry) (model.LeaderboardEntry, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	// Last write wins for an existing (model, organization) key; the row
	// keeps its original insertion sequence.
	replaced := false
	for i := range s.rows {
		if s.rows[i].entry.Key() == entry.Key() {
			s.rows[i].entry = entry
			replaced = true
			break
		}
	}
	if !replaced {
		s.rows = append(s.rows, row{entry: entry, seq: s.next})
		s.next++
	}

	s.resort()

	metrics.RecordLeaderboardUpdate()
	metrics.UpdateLeaderboardSize(len(s.rows))
	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))

	for _, r := range s.rows {
		if r.entry.Key() == entry.Key() {
			return r.entry, nil
		}
	}
	return entry, nil
}

// resort re-sorts by the primary metric descending and reassigns dense
// ranks from 1. Stable sort keeps insertion order among exact ties.
// Callers hold the write lock.
func (s *MemStore) resort() {
	sort.SliceStable(s.rows, func(a, b int) bool {
		ka, kb := s.key(s.rows[a].entry.Metrics), s.key(s.rows[b].entry.Metrics)
		if ka != kb {
			return ka > kb
		}
		return s.rows[a].seq < s.rows[b].seq
	})
	for i := range s.rows {
		s.rows[i].entry.Rank = i + 1
	}
}

// TopN implements Store.
func (s *MemStore) TopN(_ context.Context, n int) ([]model.LeaderboardEntry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.rows) {
		n = len(s.rows)
	}
	out := make([]model.LeaderboardEntry, n)
	for i := 0; i < n; i++ {
		out[i] = s.rows[i].entry
	}
	return out, nil
}

// Rank implements Store.
func (s *MemStore) Rank(_ context.Context, modelName string) (model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rows {
		if r.entry.Model == modelName {
			return r.entry, nil
		}
	}
	return model.LeaderboardEntry{}, ErrNotFound
}

// Count implements Store.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
