package dedupe

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh deduper", t, func() {
		d := NewInMemoryDeduper()

		Convey("The first sighting records, the second reports seen", func() {
			So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeTrue)
			So(d.Size(), ShouldEqual, 1)
		})

		Convey("Distinct ids do not collide", func() {
			So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "sub-2"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 2)
		})
	})
}

func TestUnrecord(t *testing.T) {
	ctx := context.Background()

	Convey("Given a recorded id", t, func() {
		d := NewInMemoryDeduper()
		So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)

		Convey("Unrecord allows the id to be recorded again", func() {
			d.Unrecord(ctx, "sub-1")
			So(d.Size(), ShouldEqual, 0)
			So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
		})

		Convey("Unrecording an unknown id is a no-op", func() {
			d.Unrecord(ctx, "sub-404")
			So(d.Size(), ShouldEqual, 1)
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	ctx := context.Background()

	Convey("Given a deduper bounded to 3 ids", t, func() {
		d := NewInMemoryDeduper(WithMaxSize(3))
		for i := 0; i < 3; i++ {
			So(d.SeenAndRecord(ctx, fmt.Sprintf("sub-%d", i)), ShouldBeFalse)
		}

		Convey("A fourth id evicts the oldest", func() {
			So(d.SeenAndRecord(ctx, "sub-3"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 3)

			Convey("The evicted id reads as unseen again", func() {
				So(d.SeenAndRecord(ctx, "sub-0"), ShouldBeFalse)
			})

			Convey("The newest ids are still tracked", func() {
				So(d.SeenAndRecord(ctx, "sub-2"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "sub-3"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := NewInMemoryDeduper(WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("sub-%d", i))
		}

		Convey("Nothing is evicted", func() {
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "sub-0"), ShouldBeTrue)
		})
	})
}
