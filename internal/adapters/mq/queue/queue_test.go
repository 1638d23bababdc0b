package queue

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/onto-project/ontobench/internal/domain/model"
)

func sub(id string) model.Submission {
	return model.Submission{ID: id, Model: "m", Organization: "org"}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory queue", t, func() {
		ctx := context.Background()

		Convey("When enqueuing within capacity", func() {
			q := NewInMemoryQueue(WithCapacity(4))
			So(q.Enqueue(ctx, sub("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, sub("b")), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)
		})

		Convey("When the queue is full", func() {
			q := NewInMemoryQueue(WithCapacity(1))
			So(q.Enqueue(ctx, sub("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, sub("b")), ShouldBeFalse)
			So(q.Len(ctx), ShouldEqual, 1)
		})

		Convey("When dequeuing", func() {
			q := NewInMemoryQueue(WithCapacity(4))
			So(q.Enqueue(ctx, sub("a")), ShouldBeTrue)

			select {
			case got := <-q.Dequeue(ctx):
				So(got.ID, ShouldEqual, "a")
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for submission")
			}
		})

		Convey("When the queue is closed", func() {
			q := NewInMemoryQueue(WithCapacity(4))
			So(q.Enqueue(ctx, sub("a")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Enqueue is rejected", func() {
				So(q.Enqueue(ctx, sub("b")), ShouldBeFalse)
			})

			Convey("Pending submissions drain before the channel closes", func() {
				got, ok := <-q.Dequeue(ctx)
				So(ok, ShouldBeTrue)
				So(got.ID, ShouldEqual, "a")

				_, ok = <-q.Dequeue(ctx)
				So(ok, ShouldBeFalse)
			})

			Convey("Close is idempotent", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
