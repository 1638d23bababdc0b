package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/onto-project/ontobench/internal/adapters/repository"
	"github.com/onto-project/ontobench/internal/domain/model"
)

// fakeDeps implements Dependencies in memory for handler tests.
type fakeDeps struct {
	seen     map[string]struct{}
	enqueued []model.Submission
	full     bool
	entries  []model.LeaderboardEntry
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{seen: make(map[string]struct{})}
}

func (f *fakeDeps) SeenAndRecord(_ context.Context, id string) bool {
	if _, ok := f.seen[id]; ok {
		return true
	}
	f.seen[id] = struct{}{}
	return false
}

func (f *fakeDeps) Unrecord(_ context.Context, id string) {
	delete(f.seen, id)
}

func (f *fakeDeps) Size() int { return len(f.seen) }

func (f *fakeDeps) Enqueue(_ context.Context, sub model.Submission) bool {
	if f.full {
		return false
	}
	f.enqueued = append(f.enqueued, sub)
	return true
}

func (f *fakeDeps) TopN(_ context.Context, n int) ([]model.LeaderboardEntry, error) {
	if n > len(f.entries) {
		n = len(f.entries)
	}
	return f.entries[:n], nil
}

func (f *fakeDeps) Rank(_ context.Context, modelName string) (model.LeaderboardEntry, error) {
	for _, e := range f.entries {
		if e.Model == modelName {
			return e, nil
		}
	}
	return model.LeaderboardEntry{}, repository.ErrNotFound
}

type fakeStats struct{}

func (fakeStats) GetStats(_ context.Context) map[string]any {
	return map[string]any{"started": true}
}

func newTestServer(deps *fakeDeps) *http.ServeMux {
	srv := NewServer(deps, fakeStats{}, 100, DatasetInfo{
		Name:        "ONTO-Bench",
		Version:     "1.6",
		TestSamples: 55,
		Categories:  []string{"KNOWN", "UNKNOWN", "CONTRADICTION"},
	})
	mux := http.NewServeMux()
	srv.Register(mux)
	return mux
}

func validSubmitBody(id string) string {
	body := map[string]any{
		"submission_id": id,
		"model_name":    "gpt-test",
		"organization":  "acme",
		"predictions": []map[string]any{
			{"sample_id": "s1", "label": "KNOWN", "confidence": 0.9, "latency_ms": 10.0},
			{"sample_id": "s2", "label": "unknown", "confidence": 0.6},
		},
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func TestSubmitHandler(t *testing.T) {
	Convey("Given the submit endpoint", t, func() {
		deps := newFakeDeps()
		mux := newTestServer(deps)

		do := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("When a valid submission arrives", func() {
			rec := do(validSubmitBody("sub-1"))

			Convey("Then it is accepted and enqueued", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)

				var ack ackResponse
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack.Status, ShouldEqual, "accepted")
				So(ack.SubmissionID, ShouldEqual, "sub-1")
				So(ack.Duplicate, ShouldBeFalse)

				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].Model, ShouldEqual, "gpt-test")
				So(deps.enqueued[0].Predictions, ShouldHaveLength, 2)
				So(deps.enqueued[0].Predictions[1].PredictedLabel, ShouldEqual, model.LabelUnknown)
			})
		})

		Convey("When no submission id is supplied", func() {
			rec := do(validSubmitBody(""))

			Convey("Then the server issues one", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				var ack ackResponse
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack.SubmissionID, ShouldNotBeEmpty)
			})
		})

		Convey("When the same submission id arrives twice", func() {
			So(do(validSubmitBody("sub-1")).Code, ShouldEqual, http.StatusAccepted)
			rec := do(validSubmitBody("sub-1"))

			Convey("Then the second is acknowledged as a duplicate", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var ack ackResponse
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack.Duplicate, ShouldBeTrue)
				So(deps.enqueued, ShouldHaveLength, 1)
			})
		})

		Convey("When the queue is saturated", func() {
			deps.full = true
			rec := do(validSubmitBody("sub-429"))

			Convey("Then the client gets 429 and may retry the same id", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
				So(deps.Size(), ShouldEqual, 0)
			})
		})

		Convey("When the body is malformed", func() {
			So(do("{not json").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the model name is missing", func() {
			body := strings.Replace(validSubmitBody("x"), "gpt-test", "  ", 1)
			So(do(body).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a prediction carries an unrecognized label", func() {
			body := strings.Replace(validSubmitBody("x"), "KNOWN", "MAYBE", 1)
			So(do(body).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a prediction confidence is out of range", func() {
			body := strings.Replace(validSubmitBody("x"), "0.9", "1.9", 1)
			So(do(body).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the method is not POST", func() {
			req := httptest.NewRequest(http.MethodGet, "/submit", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestLeaderboardHandler(t *testing.T) {
	Convey("Given the leaderboard endpoint", t, func() {
		deps := newFakeDeps()
		deps.entries = []model.LeaderboardEntry{
			{Rank: 1, Model: "a", Organization: "x", Metrics: model.Metrics{UF1: 0.9}},
			{Rank: 2, Model: "b", Organization: "y", Metrics: model.Metrics{UF1: 0.5}},
		}
		mux := newTestServer(deps)

		get := func(path string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("When no limit is given the default applies", func() {
			rec := get("/leaderboard")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var entries []model.LeaderboardEntry
			So(json.Unmarshal(rec.Body.Bytes(), &entries), ShouldBeNil)
			So(entries, ShouldHaveLength, 2)
			So(entries[0].Model, ShouldEqual, "a")
		})

		Convey("When a limit is given it is honored", func() {
			rec := get("/leaderboard?limit=1")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var entries []model.LeaderboardEntry
			So(json.Unmarshal(rec.Body.Bytes(), &entries), ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
		})

		Convey("When the limit is not a positive integer", func() {
			So(get("/leaderboard?limit=0").Code, ShouldEqual, http.StatusBadRequest)
			So(get("/leaderboard?limit=abc").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit exceeds the configured maximum", func() {
			So(get("/leaderboard?limit=101").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRankHandler(t *testing.T) {
	Convey("Given the rank endpoint", t, func() {
		deps := newFakeDeps()
		deps.entries = []model.LeaderboardEntry{
			{Rank: 1, Model: "gpt-test", Organization: "acme", Metrics: model.Metrics{UF1: 0.9}},
		}
		mux := newTestServer(deps)

		get := func(path string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			return rec
		}

		Convey("When the model exists", func() {
			rec := get("/rank/gpt-test")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var entry model.LeaderboardEntry
			So(json.Unmarshal(rec.Body.Bytes(), &entry), ShouldBeNil)
			So(entry.Rank, ShouldEqual, 1)
			So(entry.Organization, ShouldEqual, "acme")
		})

		Convey("When the model is unknown", func() {
			So(get("/rank/nope").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the path carries extra segments", func() {
			So(get("/rank/a/b").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatsAndDatasetHandlers(t *testing.T) {
	Convey("Given the stats and dataset endpoints", t, func() {
		mux := newTestServer(newFakeDeps())

		Convey("Stats returns the provider payload", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("Dataset returns public info without labels", func() {
			req := httptest.NewRequest(http.MethodGet, "/dataset", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			var info DatasetInfo
			So(json.Unmarshal(rec.Body.Bytes(), &info), ShouldBeNil)
			So(info.Name, ShouldEqual, "ONTO-Bench")
			So(info.Categories, ShouldHaveLength, 3)
		})
	})
}
