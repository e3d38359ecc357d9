package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "request-id"
)

// 请求体大小上限；上传接口需容纳 10 MiB 媒体的 base64 编码
const (
	maxFormBodyBytes   int64 = 2 << 20
	maxUploadBodyBytes int64 = 15 << 20
)

// RequestIDMiddleware 为每个请求分配 X-Request-ID，沿用客户端传入的值
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Set(requestIDContextKey, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

// RequestID 返回当前请求的 id
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", requestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"size":       c.Writer.Size(),
			"client_ip":  c.ClientIP(),
			"request_id": RequestID(c),
		}).Info("http_request")
	}
}

// RateLimit 按客户端 IP 对 resource 限流；Redis 出错时放行
func (h *HTTPHandler) RateLimit(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.limiter == nil {
			c.Next()
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		allowed, err := h.limiter.Allow(ctx, resource, "ip:"+c.ClientIP())
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"resource":   resource,
				"request_id": RequestID(c),
			}).Warn("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !allowed {
			rateLimited.WithLabelValues(resource).Inc()
			logrus.WithFields(logrus.Fields{
				"resource":   resource,
				"client_ip":  c.ClientIP(),
				"limit":      h.limiter.Limit(),
				"request_id": RequestID(c),
			}).Warn("rate limit exceeded")
			TooManyRequests(c)
			return
		}
		c.Next()
	}
}

// BodyLimit 限制请求体大小，超出部分在解析时报错
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
