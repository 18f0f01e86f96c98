package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	AppointmentsTotal *prometheus.CounterVec

	NotificationsCreated    prometheus.Counter
	NotificationsDispatched prometheus.Counter
	NotificationsDropped    prometheus.Counter
	NotificationsSwept      prometheus.Counter

	WebsocketConnections prometheus.Gauge
}

func NewCollector(serviceName string) *Collector {
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		AppointmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "scheduling",
			Name:      "appointments_total",
			Help:      "Total scheduling mutations by outcome.",
		}, []string{"outcome"}),

		NotificationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "notifications",
			Name:      "created_total",
			Help:      "Total notifications durably stored.",
		}),

		NotificationsDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "notifications",
			Name:      "dispatched_total",
			Help:      "Total notifications published to live channels.",
		}),

		NotificationsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "notifications",
			Name:      "dropped_total",
			Help:      "Live pushes that failed. The stored record still stands.",
		}),

		NotificationsSwept: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "notifications",
			Name:      "swept_total",
			Help:      "Read notifications deleted by the retention sweep.",
		}),

		WebsocketConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "realtime",
			Name:      "websocket_connections",
			Help:      "Current number of connected websocket clients.",
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
