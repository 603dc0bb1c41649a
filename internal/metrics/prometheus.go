package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TotalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitals_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vitals_http_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	ActiveRequests = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vitals_http_requests_active",
			Help: "Number of active HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	VitalsLogged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vitals_logged_total",
			Help: "Total number of vital readings stored",
		},
	)

	VitalsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitals_rejected_total",
			Help: "Total number of vital submissions rejected by validation",
		},
		[]string{"code"},
	)

	RollingWindowLogs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vitals_rolling_window_logs",
			Help: "Readings in the analytics window at the last analytics request",
		},
	)
)

func init() {
	prometheus.MustRegister(TotalRequests)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ActiveRequests)
	prometheus.MustRegister(VitalsLogged)
	prometheus.MustRegister(VitalsRejected)
	prometheus.MustRegister(RollingWindowLogs)
}

// Middleware records request counts and latency per route template, so
// /api/vitals/{id} is one series rather than one per id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := routeTemplate(r)

		ActiveRequests.WithLabelValues(r.Method, endpoint).Inc()
		defer ActiveRequests.WithLabelValues(r.Method, endpoint).Dec()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		TotalRequests.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.status)).Inc()
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func IncrementVitalsLogged() {
	VitalsLogged.Inc()
}

func IncrementVitalsRejected(code string) {
	VitalsRejected.WithLabelValues(code).Inc()
}

func SetRollingWindowLogs(value int) {
	RollingWindowLogs.Set(float64(value))
}
