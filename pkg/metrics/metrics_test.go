package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithRegistry(registry), WithNamespace("test"))

		Convey("When bookings are recorded", func() {
			m.RecordBooking(nil)
			m.RecordBooking(nil)
			m.RecordBooking(errors.New("sheet down"))

			Convey("Then successes and failures are counted separately", func() {
				So(testutil.ToFloat64(m.bookingsRecorded), ShouldEqual, 2)
				So(testutil.ToFloat64(m.bookingErrors), ShouldEqual, 1)
			})
		})

		Convey("When evaluations are recorded", func() {
			m.RecordEvaluation("strong yes", 0.96)
			m.RecordEvaluation("maybe", 0.7)
			m.RecordEvaluation("strong yes", 1.1)
			m.RecordEvaluationError("invalid_input")

			Convey("Then they are labelled by verdict", func() {
				So(testutil.ToFloat64(m.evaluations.WithLabelValues("strong yes")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.evaluations.WithLabelValues("maybe")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.evaluationErrors.WithLabelValues("invalid_input")), ShouldEqual, 1)
			})
		})

		Convey("When snapshot activity and requests are observed", func() {
			m.RecordSnapshotLoad(SourceCache)
			m.RecordSnapshotLoad(SourceStore)
			m.RecordSnapshotRefresh()
			m.ObserveStoreRead(20 * time.Millisecond)
			m.ObserveHTTPRequest(http.MethodGet, "/gigs", http.StatusOK, time.Millisecond)
			m.RecordWeeklyReport(nil)

			Convey("Then the handler exposes them under the namespace", func() {
				rec := httptest.NewRecorder()
				m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

				body := rec.Body.String()
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(strings.Contains(body, `test_bookings_snapshot_loads_total{source="cache"} 1`), ShouldBeTrue)
				So(strings.Contains(body, `test_http_requests_total{method="GET",route="/gigs",status="200"} 1`), ShouldBeTrue)
				So(strings.Contains(body, `test_reporting_weekly_reports_total{outcome="ok"} 1`), ShouldBeTrue)
			})
		})
	})

	Convey("Given a nil manager", t, func() {
		var m *Manager

		Convey("Then recording is a no-op", func() {
			So(func() {
				m.RecordBooking(nil)
				m.RecordEvaluation("maybe", 0.7)
				m.RecordEvaluationError("x")
				m.RecordSnapshotLoad(SourceCache)
				m.RecordSnapshotRefresh()
				m.ObserveStoreRead(time.Second)
				m.RecordWeeklyReport(nil)
				m.ObserveHTTPRequest("GET", "/", 200, time.Second)
			}, ShouldNotPanic)
			So(m.Registry(), ShouldBeNil)
		})
	})
}
