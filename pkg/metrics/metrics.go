// Package metrics exposes the bot's and API server's Prometheus
// collectors.
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
	// CommandsTotal counts dispatched bot commands by name.
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sir_robin_commands_total",
		Help: "Number of bot commands dispatched.",
	}, []string{"command"})

	// CommandErrorsTotal counts bot commands that finished with an error.
	CommandErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sir_robin_command_errors_total",
		Help: "Number of bot commands that finished with an error.",
	}, []string{"command"})

	// APIRequestsTotal counts management API requests by route and status.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "code_jam_api_requests_total",
		Help: "Number of management API requests handled.",
	}, []string{"method", "status"})

	// APIRequestDuration tracks management API request latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "code_jam_api_request_duration_seconds",
		Help:    "Management API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument wraps an HTTP handler with the API request collectors.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		APIRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(recorder.status)).Inc()
		APIRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
