package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "users_api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_api_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "users_api_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Metrics records request count, in-flight gauge and a duration histogram
// labelled by status class. The route set is small and fixed, so the raw
// path is a safe label.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path).Inc()
			httpRequestsInFlight.Inc()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			httpRequestsInFlight.Dec()
			statusClass := fmt.Sprintf("%dxx", rec.status/100)
			httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, statusClass).Observe(time.Since(start).Seconds())
		})
	}
}
