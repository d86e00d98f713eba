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
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interviewcoach",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "interviewcoach",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "interviewcoach",
		Name:      "ws_connections",
		Help:      "Current number of open interview WebSocket connections",
	})

	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interviewcoach",
		Name:      "interview_turns_total",
		Help:      "Total number of processed interview turns",
	}, []string{"stage", "outcome"})

	generatorFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interviewcoach",
		Name:      "generator_fallbacks_total",
		Help:      "Turns answered from the canned question pool because the generator failed",
	})
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request metrics with Prometheus labels.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		labels := prometheus.Labels{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": strconv.Itoa(rec.status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}

// WSConnected / WSDisconnected track the relay connection gauge.
func WSConnected()    { wsConnections.Inc() }
func WSDisconnected() { wsConnections.Dec() }

// RecordTurn counts one processed turn. Outcome is "generated", "fallback"
// or "error".
func RecordTurn(stage, outcome string) {
	turnsTotal.WithLabelValues(stage, outcome).Inc()
	if outcome == "fallback" {
		generatorFallbacks.Inc()
	}
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
