package dispatchhandlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vitalvas/relay/dispatch"
)

// MetricsConfig configures the Metrics middleware behaviour.
type MetricsConfig struct {
	// Registerer receives the middleware's collectors.
	// Defaults to prometheus.DefaultRegisterer when nil.
	Registerer prometheus.Registerer

	// Namespace prefixes the metric names. Defaults to "dispatch".
	Namespace string
}

// MetricsMiddleware returns a middleware that records a request counter
// and a duration histogram per dispatched request. The route label carries
// the matched route template, not the concrete path, so label cardinality
// is bounded by the number of registered routes. It returns an error when
// a collector cannot be registered.
func MetricsMiddleware(cfg MetricsConfig) (dispatch.MiddlewareFunc, error) {
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "dispatch"
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of dispatched HTTP requests.",
	}, []string{"method", "route", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of dispatched HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	for _, c := range []prometheus.Collector{requests, duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(sw, r)

			route := "unmatched"
			if cr := dispatch.CurrentRoute(r); cr != nil {
				route = cr.Template()
			}

			requests.WithLabelValues(r.Method, route, strconv.Itoa(sw.statusCode())).Inc()
			duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}, nil
}
