package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request counts and latencies per route.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the HTTP collectors of service with reg.
func NewMetrics(reg prometheus.Registerer, service string) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "identity_http_requests_total",
				Help:        "Total number of HTTP requests by method, route and status code.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"method", "route", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "identity_http_request_duration_seconds",
				Help:        "HTTP request latency by method and route.",
				ConstLabels: prometheus.Labels{"service": service},
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) Handle(c *gin.Context) {
	start := time.Now()

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
}
