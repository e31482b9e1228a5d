package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "playint"

var (
	requestsByRoute = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route template and status code",
	}, []string{"method", "route", "code"})

	// 리포트는 킬메일 페이지를 모두 기다리므로 상단 버킷을 넓게
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route template",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
	}, []string{"method", "route"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "http_in_flight_requests",
		Help:      "Requests currently being served",
	})

	rateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	}, []string{"backend"})
)

// Metrics records request count, latency and in-flight gauge per route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		inFlight.Inc()
		began := time.Now()
		defer inFlight.Dec()

		c.Next()

		route := routeLabel(c.FullPath())
		requestsByRoute.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		requestLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(began).Seconds())
	}
}

// routeLabel keeps label cardinality bounded: unmatched paths share one value
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return "unmatched"
	}
	return fullPath
}
