package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	recordsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_created_total",
			Help: "Total number of records created",
		},
		[]string{"collection"},
	)

	scopedQueriesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoped_queries_built_total",
			Help: "Total number of scoped list queries built",
		},
		[]string{"collection", "scoping"},
	)

	authorizationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_decisions_total",
			Help: "Total number of target-access authorization decisions",
		},
		[]string{"collection", "decision"},
	)

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of outbound notifications attempted",
		},
		[]string{"channel", "status"},
	)

	hrStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_status_changes_total",
			Help: "Total number of HR request status changes",
		},
		[]string{"kind", "to_status"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath caps path cardinality; user ids appear as path segments on
// list endpoints so anything overly long is collapsed.
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordCreated records a record creation in a collection.
func RecordCreated(collection string) {
	recordsCreated.WithLabelValues(collection).Inc()
}

// RecordScopedQuery records a scoped list query. scoping is one of
// "unscoped", "category", "owner".
func RecordScopedQuery(collection, scoping string) {
	scopedQueriesBuilt.WithLabelValues(collection, scoping).Inc()
}

// RecordAuthorizationDecision records a target-access decision.
func RecordAuthorizationDecision(collection string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	authorizationDecisions.WithLabelValues(collection, decision).Inc()
}

// RecordNotification records an outbound notification attempt.
func RecordNotification(channel string, ok bool) {
	status := "failed"
	if ok {
		status = "sent"
	}
	notificationsSent.WithLabelValues(channel, status).Inc()
}

// RecordHRStatusChange records an HR request status transition.
func RecordHRStatusChange(kind, toStatus string) {
	hrStatusChanges.WithLabelValues(kind, toStatus).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
