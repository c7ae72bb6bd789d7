package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequests counts handled requests.
	// Labels: method, route (matched pattern path), status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notes",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	// httpDuration measures request latency.
	// Labels: method, route
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "notes",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records request count and latency for every request served by
// mux, labelled by the route pattern the mux matched.
func instrument(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		mux.ServeHTTP(rec, r)

		route := routeLabel(r.Pattern)
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// routeLabel strips the method from a ServeMux pattern. Unmatched requests
// share one label so arbitrary paths cannot grow the series count.
func routeLabel(pattern string) string {
	if pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
