package service_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/onto-project/ontobench/internal/app"
	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func testTruth() model.GroundTruth {
	return model.GroundTruth{
		"s1": model.LabelKnown,
		"s2": model.LabelUnknown,
		"s3": model.LabelContradiction,
		"s4": model.LabelKnown,
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(5_000),
			service.WithDedupeSize(2_500),
			service.WithGroundTruth(testTruth()),
			service.WithPrimaryMetric("macro_f1"),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithGroundTruth(testTruth()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)
			defer svc.Stop(ctx)

			So(err, ShouldBeNil)

			Convey("Then it is marked as started", func() {
				stats := svc.GetStats(ctx)
				So(stats["started"], ShouldEqual, true)
				So(stats["leaderboardSize"], ShouldEqual, 0)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When stopping the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop(ctx)

			Convey("Then it is marked as stopped", func() {
				stats := svc.GetStats(ctx)
				So(stats["started"], ShouldEqual, false)
			})

			Convey("And stopping again is a no-op", func() {
				So(func() { svc.Stop(ctx) }, ShouldNotPanic)
			})
		})
	})
}

func TestService_UnknownPrimaryMetric(t *testing.T) {
	Convey("Given a service configured with an unrecognized ranking metric", t, func() {
		svc := service.New(
			service.WithGroundTruth(testTruth()),
			service.WithPrimaryMetric("vibes"),
		)

		Convey("Then Start reports the configuration error", func() {
			err := svc.Start(context.Background())
			So(err, ShouldNotBeNil)
		})
	})
}

func TestService_Dedupe(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		svc := service.New(service.WithGroundTruth(testTruth()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("When a submission id is recorded twice", func() {
			first := svc.SeenAndRecord(ctx, "sub-1")
			second := svc.SeenAndRecord(ctx, "sub-1")

			Convey("Then only the second check reports it as seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(svc.Size(), ShouldEqual, 1)
			})

			Convey("And unrecording allows a retry", func() {
				svc.Unrecord(ctx, "sub-1")
				So(svc.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
			})
		})
	})
}
