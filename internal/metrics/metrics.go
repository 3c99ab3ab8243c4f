package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	namespace = "kolam"

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	knowledgeQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "knowledge_queries_total",
			Help:      "Number of resolved knowledge queries",
		},
		[]string{"source", "outcome"},
	)

	knowledgeQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "knowledge_query_duration_seconds",
			Help:      "Knowledge query duration in seconds, simulated delay included",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	availabilityProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_probes_total",
			Help:      "Number of availability probes by result",
		},
		[]string{"result"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live query sessions",
		},
	)
)

const (
	SourceMock = "mock"
	SourceLive = "live"

	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeStale     = "stale"
)

func HttpRequestsTotal(method, path, code string) {
	httpRequestsTotal.With(prometheus.Labels{
		"method": method,
		"path":   path,
		"code":   code,
	}).Inc()
}

func HttpRequestDuration(method, path string, duration time.Duration) {
	httpRequestDuration.With(prometheus.Labels{
		"method": method,
		"path":   path,
	}).Observe(duration.Seconds())
}

func KnowledgeQueriesTotal(source, outcome string) {
	knowledgeQueriesTotal.With(prometheus.Labels{
		"source":  source,
		"outcome": outcome,
	}).Inc()
}

func KnowledgeQueryDuration(source string, duration time.Duration) {
	knowledgeQueryDuration.With(prometheus.Labels{
		"source": source,
	}).Observe(duration.Seconds())
}

func AvailabilityProbesTotal(result string) {
	availabilityProbesTotal.With(prometheus.Labels{
		"result": result,
	}).Inc()
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// Middleware records request counts and latency. Path labels use the chi
// route pattern when the caller provides one through routePattern.
func Middleware(routePattern func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &statusResponseWriter{w, http.StatusOK}
			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if routePattern != nil {
				if p := routePattern(r); p != "" {
					path = p
				}
			}

			duration := time.Since(start)
			HttpRequestsTotal(r.Method, path, strconv.Itoa(ww.status))
			HttpRequestDuration(r.Method, path, duration)
		})
	}
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
