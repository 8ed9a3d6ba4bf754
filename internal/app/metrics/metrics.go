package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "itemshop",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "itemshop",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "itemshop",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	catalogFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "itemshop",
			Subsystem: "catalog",
			Name:      "fetches_total",
			Help:      "Total number of catalog refresh attempts.",
		},
		[]string{"status"},
	)

	catalogEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "itemshop",
			Subsystem: "catalog",
			Name:      "entries",
			Help:      "Number of entries in the current catalog snapshot.",
		},
	)

	giftDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "itemshop",
			Subsystem: "gifts",
			Name:      "dispatches_total",
			Help:      "Total number of buy/gift requests sent to the fulfillment backend.",
		},
		[]string{"operation", "status"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		catalogFetches,
		catalogEntries,
		giftDispatches,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	})
}

// RecordCatalogFetch records the outcome of one catalog refresh.
func RecordCatalogFetch(status string, entries int) {
	catalogFetches.WithLabelValues(status).Inc()
	if status == "success" {
		catalogEntries.Set(float64(entries))
	}
}

// RecordGiftDispatch records the outcome of one buy/gift dispatch.
func RecordGiftDispatch(operation, status string) {
	if operation == "" {
		operation = "unknown"
	}
	giftDispatches.WithLabelValues(operation, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// canonicalPath collapses per-session identifiers so the label set stays
// bounded; static asset paths collapse to /static.
func canonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	if parts[0] != "api" {
		if parts[0] == "send-gift" || parts[0] == "metrics" {
			return "/" + parts[0]
		}
		return "/static"
	}
	if len(parts) == 1 {
		return "/api"
	}
	if parts[1] != "sessions" {
		return "/api/" + parts[1]
	}
	if len(parts) == 2 {
		return "/api/sessions"
	}
	if len(parts) == 3 {
		return "/api/sessions/:id"
	}
	return "/api/sessions/:id/" + parts[3]
}
