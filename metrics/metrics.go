// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/glint-player/glint/constant"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PaintsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constant.App,
			Subsystem: "compositor",
			Name:      "paints_total",
			Help:      "Overlay rectangles uploaded, by copy path",
		},
		[]string{"path"},
	)

	PaintBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: constant.App,
			Subsystem: "compositor",
			Name:      "paint_bytes_total",
			Help:      "Bytes copied into staging buffers",
		},
	)

	PaintDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: constant.App,
			Subsystem: "compositor",
			Name:      "paint_duration_seconds",
			Help:      "Time spent staging and uploading one rectangle",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
	)

	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: constant.App,
			Subsystem: "compositor",
			Name:      "frame_queue_depth",
			Help:      "Overlay frames waiting to be painted",
		},
	)

	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constant.App,
			Subsystem: "player",
			Name:      "events_total",
			Help:      "Typed engine events dispatched, by kind",
		},
		[]string{"kind"},
	)

	EngineErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constant.App,
			Subsystem: "player",
			Name:      "engine_errors_total",
			Help:      "Failed engine calls, by operation",
		},
		[]string{"op"},
	)

	IPCClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: constant.App,
			Subsystem: "ipc",
			Name:      "clients",
			Help:      "Connected UI transport clients",
		},
	)
)

func init() {
	prometheus.MustRegister(PaintsTotal, PaintBytes, PaintDuration, QueueDepth, EventsTotal, EngineErrors, IPCClients)
}

// Since observes the seconds elapsed from start on h.
func Since(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
