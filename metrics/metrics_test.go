package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the registered collectors", t, func() {
		Convey("Labelled counters count per label", func() {
			before := testutil.ToFloat64(EngineErrors.WithLabelValues("set"))
			EngineErrors.WithLabelValues("set").Inc()
			So(testutil.ToFloat64(EngineErrors.WithLabelValues("set")), ShouldEqual, before+1)
		})

		Convey("Since observes into the existing series", func() {
			before := testutil.CollectAndCount(PaintDuration)
			Since(PaintDuration, time.Now())
			So(testutil.CollectAndCount(PaintDuration), ShouldEqual, before)
		})

		Convey("Handler exposes the app namespace", func() {
			QueueDepth.Set(3)
			rec := httptest.NewRecorder()
			Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
			So(rec.Code, ShouldEqual, 200)
			So(strings.Contains(rec.Body.String(), "glint_compositor_frame_queue_depth 3"), ShouldBeTrue)
		})
	})
}
