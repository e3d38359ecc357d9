package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_http_requests_total",
		Help: "Total HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// operationResults counts the in-band result kind of every account and blog write.
	operationResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_operation_results_total",
		Help: "Results of account and blog operations by kind",
	}, []string{"operation", "result"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"resource"})
)

func recordResult(operation, result string) {
	operationResults.WithLabelValues(operation, result).Inc()
}

// MetricsMiddleware 记录请求数量与耗时
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler 暴露 Prometheus 指标
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
