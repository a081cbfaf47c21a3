package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"rawblog/app/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus request metrics, namespaced "rawblog".
//
//   - http_requests_total (counter): labels method, route, status.
//   - http_request_duration_seconds (histogram): labels method, route.
//   - posts (gauge): number of stored posts, once TrackPosts is called.
type Metrics struct {
	registry prometheus.Registerer
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the request metrics with registry
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rawblog",
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by route and status code",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rawblog",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// TrackPosts exposes the current post count as a gauge
func (m *Metrics) TrackPosts(svc *services.PostService) error {
	return m.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "rawblog",
		Name:      "posts",
		Help:      "Number of posts currently stored",
	}, func() float64 {
		n, err := svc.CountPosts(context.Background())
		if err != nil {
			return 0
		}
		return float64(n)
	}))
}

// Middleware records one observation per request
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		route := routeTemplate(r)
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.Status())).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// routeTemplate returns the matched mux route template, keeping label
// cardinality independent of post IDs.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
