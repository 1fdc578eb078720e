// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	generationsTotal *prometheus.CounterVec
}

// New registers and returns the application metrics
func New() *Metrics {
	return &Metrics{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "qwikplan_http_requests_total",
			Help: "HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qwikplan_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		generationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "qwikplan_generations_total",
			Help: "Plan generations by flow and outcome",
		}, []string{"flow", "outcome"}),
	}
}

// ObserveGeneration counts one generation attempt
func (m *Metrics) ObserveGeneration(flow, outcome string) {
	m.generationsTotal.WithLabelValues(flow, outcome).Inc()
}

// Middleware instruments every request
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			m.requestsTotal.WithLabelValues(
				c.Request().Method, path, strconv.Itoa(c.Response().Status)).Inc()
			m.requestDuration.WithLabelValues(
				c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
