// Package metrics provides Prometheus instrumentation for the server.
//
// Wire it up once in cmd/server:
//
//	handler = metrics.Middleware()(handler)
//	mux.Handle("GET /metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "beanthere"

var (
	// RequestDuration tracks HTTP latency by method, route pattern and status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	// PlacesQueries counts places provider queries by kind and outcome.
	PlacesQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "places",
			Name:      "queries_total",
			Help:      "Places queries by kind (nearby, text) and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// PlacesLatency tracks provider round trips. Cached answers are not observed.
	PlacesLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "places",
			Name:      "query_duration_seconds",
			Help:      "Duration of places provider calls in seconds.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)

	// CacheLookups counts places cache lookups by result (hit, miss).
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Places cache lookups by result.",
		},
		[]string{"result"},
	)

	// StoreErrors counts document store failures by collection and kind.
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Document store failures by collection and kind (unavailable, other).",
		},
		[]string{"collection", "kind"},
	)
)

// Registry is the Prometheus registry served at /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(
		RequestDuration,
		RequestTotal,
		PlacesQueries,
		PlacesLatency,
		CacheLookups,
		StoreErrors,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Places implements places.Recorder over the package collectors.
type Places struct{}

// ObservePlacesQuery records one places query.
func (Places) ObservePlacesQuery(kind, outcome string, elapsed time.Duration) {
	PlacesQueries.WithLabelValues(kind, outcome).Inc()
	if elapsed > 0 {
		PlacesLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}

// ObserveCacheLookup records one cache lookup.
func (Places) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(result).Inc()
}

// ObserveStoreError records a failed document store call.
func ObserveStoreError(collection string, unavailable bool) {
	kind := "other"
	if unavailable {
		kind = "unavailable"
	}
	StoreErrors.WithLabelValues(collection, kind).Inc()
}

// statusRecorder captures the status code written by the next handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers working behind the middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware records request count and latency. Routes are labelled by
// their ServeMux pattern, not the raw path, to bound cardinality.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(rec.status)
			RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, route, status).Inc()
		})
	}
}
