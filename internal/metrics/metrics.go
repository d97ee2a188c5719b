// Package metrics регистрирует Prometheus-метрики сервиса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ClickRecorded = "recorded"
	ClickNotFound = "not_found"
	ClickFailed   = "failed"

	ConversionAttributed = "attributed"
	ConversionDuplicate  = "duplicate"
	ConversionOrphan     = "orphan"
	ConversionFailed     = "failed"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	clicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_clicks_total",
			Help: "Tracked link clicks partitioned by result",
		},
		[]string{"result"},
	)

	conversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_conversions_total",
			Help: "Conversion marks partitioned by outcome",
		},
		[]string{"outcome"},
	)

	unsubscriptionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracking_unsubscriptions_total",
			Help: "Subscribers marked as left",
		},
	)

	linksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracking_links_created_total",
			Help: "Tracking links created",
		},
	)
)

func ObserveClick(result string) {
	clicksTotal.WithLabelValues(result).Inc()
}

func ObserveConversion(outcome string) {
	conversionsTotal.WithLabelValues(outcome).Inc()
}

func ObserveUnsubscription() {
	unsubscriptionsTotal.Inc()
}

func ObserveLinkCreated() {
	linksCreatedTotal.Inc()
}

// Middleware records basic HTTP metrics for chi routes.
// Labels use the matched route pattern to keep cardinality low.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}
