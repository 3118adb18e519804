package cache

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mamadbah2/gigboard/internal/domain/models"
)

func TestMemorySnapshot(t *testing.T) {
	Convey("Given an empty memory snapshot with a one minute TTL", t, func() {
		ctx := context.Background()
		clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		snapshot := NewMemorySnapshot(time.Minute)
		snapshot.now = func() time.Time { return clock }

		Convey("When it is loaded", func() {
			_, err := snapshot.Load(ctx)

			Convey("Then it misses", func() {
				So(err, ShouldEqual, ErrCacheMiss)
			})
		})

		Convey("When bookings are stored", func() {
			bookings := []models.Booking{{Category: "Pub", Fee: 300}, {Category: "Wedding", Fee: 1200}}
			So(snapshot.Store(ctx, bookings), ShouldBeNil)

			Convey("Then a load returns them", func() {
				loaded, err := snapshot.Load(ctx)
				So(err, ShouldBeNil)
				So(loaded, ShouldResemble, bookings)
			})

			Convey("Then mutating the caller's slice does not leak into the snapshot", func() {
				bookings[0].Fee = 1
				loaded, err := snapshot.Load(ctx)
				So(err, ShouldBeNil)
				So(loaded[0].Fee, ShouldEqual, 300)
			})

			Convey("Then the snapshot expires after the TTL", func() {
				clock = clock.Add(time.Minute)
				_, err := snapshot.Load(ctx)
				So(err, ShouldEqual, ErrCacheMiss)
			})

			Convey("Then invalidation drops it", func() {
				So(snapshot.Invalidate(ctx), ShouldBeNil)
				_, err := snapshot.Load(ctx)
				So(err, ShouldEqual, ErrCacheMiss)
			})

			Convey("Then an empty history is still a hit", func() {
				So(snapshot.Store(ctx, nil), ShouldBeNil)
				loaded, err := snapshot.Load(ctx)
				So(err, ShouldBeNil)
				So(loaded, ShouldBeEmpty)
			})
		})
	})
}
