package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/onto-project/ontobench/internal/domain/eval"
	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type stubQueue struct {
	ch chan model.Submission
}

func (q *stubQueue) Dequeue(_ context.Context) <-chan model.Submission { return q.ch }

type captureRanker struct {
	mu      sync.Mutex
	entries []model.LeaderboardEntry
}

func (r *captureRanker) Submit(_ context.Context, e model.LeaderboardEntry) (model.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.Rank = len(r.entries) + 1
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *captureRanker) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *captureRanker) last() model.LeaderboardEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[len(r.entries)-1]
}

func TestEvalWorker(t *testing.T) {
	Convey("Given a worker over a queue and a capture ranker", t, func() {
		truth := model.GroundTruth{
			"s1": model.LabelKnown,
			"s2": model.LabelUnknown,
		}
		q := &stubQueue{ch: make(chan model.Submission, 4)}
		ranker := &captureRanker{}
		w := NewEvalWorker(q, eval.New(), ranker, truth, WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		Convey("When a submission arrives", func() {
			at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			q.ch <- model.Submission{
				ID:           "sub-1",
				Model:        "gpt-test",
				Organization: "acme",
				Verified:     true,
				SubmittedAt:  at,
				Predictions: []model.Prediction{
					{SampleID: "s1", PredictedLabel: model.LabelKnown, Confidence: 0.9},
					{SampleID: "s2", PredictedLabel: model.LabelUnknown, Confidence: 0.8},
				},
			}

			So(func() bool {
				deadline := time.Now().Add(2 * time.Second)
				for ranker.count() == 0 {
					if time.Now().After(deadline) {
						return false
					}
					time.Sleep(5 * time.Millisecond)
				}
				return true
			}(), ShouldBeTrue)

			entry := ranker.last()
			So(entry.Model, ShouldEqual, "gpt-test")
			So(entry.Organization, ShouldEqual, "acme")
			So(entry.Verified, ShouldBeTrue)
			So(entry.SubmittedAt, ShouldEqual, "2025-06-01T12:00:00Z")
			So(entry.Metrics.Accuracy, ShouldEqual, 1.0)
			So(entry.Metrics.NSamples, ShouldEqual, 2)
		})

		Convey("When the worker is shut down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			So(w.Shutdown(sctx), ShouldBeNil)
		})
	})
}

func TestShutdownDrainsBufferedSubmissions(t *testing.T) {
	Convey("Given a worker with submissions already buffered on the queue", t, func() {
		truth := model.GroundTruth{"s1": model.LabelKnown}
		q := &stubQueue{ch: make(chan model.Submission, 4)}
		ranker := &captureRanker{}
		w := NewEvalWorker(q, eval.New(), ranker, truth, WithName("drain-worker"))

		for i := 0; i < 3; i++ {
			q.ch <- model.Submission{
				ID:          "sub-" + string(rune('a'+i)),
				Model:       "gpt-test",
				SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
				Predictions: []model.Prediction{
					{SampleID: "s1", PredictedLabel: model.LabelKnown, Confidence: 0.9},
				},
			}
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		Convey("Shutdown processes the buffered submissions before the worker exits", func() {
			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer scancel()
			So(w.Shutdown(sctx), ShouldBeNil)
			So(ranker.count(), ShouldEqual, 3)
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of workers", t, func() {
		q := &stubQueue{ch: make(chan model.Submission)}
		ranker := &captureRanker{}
		p := NewPool(3, q, eval.New(), ranker, model.GroundTruth{})

		So(p.Size(), ShouldEqual, 3)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		p.Start(ctx)

		Convey("Shutdown stops every worker", func() {
			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer scancel()
			So(p.Shutdown(sctx), ShouldBeNil)
		})
	})
}
