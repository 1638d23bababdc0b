package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		Convey("When creating with an isolated registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})

			Convey("Then all metrics should be registered", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				// Counters without observations do appear; gauges report zero.
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("bench"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When options carry zero values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "ontobench")
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("Submission pipeline helpers should not panic", func() {
			So(RecordSubmissionAccepted, ShouldNotPanic)
			So(RecordSubmissionDuplicate, ShouldNotPanic)
			So(RecordSubmissionRejected, ShouldNotPanic)
			So(func() { RecordEvaluationLatency(12.5) }, ShouldNotPanic)
			So(RecordEvaluationError, ShouldNotPanic)
		})

		Convey("Leaderboard helpers should not panic", func() {
			So(RecordLeaderboardUpdate, ShouldNotPanic)
			So(func() { UpdateLeaderboardSize(3) }, ShouldNotPanic)
			So(func() { RecordStoreUpdateLatency(0.5) }, ShouldNotPanic)
		})

		Convey("Queue and worker helpers should not panic", func() {
			So(func() { UpdateQueueSize(10) }, ShouldNotPanic)
			So(func() { UpdateQueueCapacity(100) }, ShouldNotPanic)
			So(RecordQueueEnqueueError, ShouldNotPanic)
			So(func() { UpdateWorkerCount(8) }, ShouldNotPanic)
		})

		Convey("HTTP helpers should not panic", func() {
			So(func() { RecordHTTPRequest("/submit", "POST", "202") }, ShouldNotPanic)
			So(func() { RecordHTTPRequestDuration("/submit", "POST", "202", 3.2) }, ShouldNotPanic)
		})

		Convey("The global registry should expose recorded metrics", func() {
			RecordSubmissionAccepted()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			found := false
			for _, f := range families {
				if f.GetName() == "ontobench_leaderboard_submissions_accepted_total" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}
