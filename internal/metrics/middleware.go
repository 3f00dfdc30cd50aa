package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMiddleware records request counts and latency partitioned by status
// code, method, and chi route pattern.
type HTTPMiddleware struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewHTTPMiddleware creates the HTTP collectors and registers them with
// the given registerer.
func NewHTTPMiddleware(reg prometheus.Registerer) *HTTPMiddleware {
	m := &HTTPMiddleware{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests partitioned by status code, method and route.",
		}, []string{"code", "method", "path"}),

		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time spent on the request partitioned by status code, method and route.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		}, []string{"code", "method", "path"}),
	}

	reg.MustRegister(m.requests, m.latency)
	return m
}

// Handler wraps next with request instrumentation. Requests that do not
// resolve to a chi route are not recorded, keeping label cardinality
// bounded.
func (m *HTTPMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		rctx := chi.RouteContext(r.Context())
		if rctx == nil {
			return
		}
		pattern := rctx.RoutePattern()
		code := strconv.Itoa(ww.Status())

		m.requests.WithLabelValues(code, r.Method, pattern).Inc()
		m.latency.WithLabelValues(code, r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}
