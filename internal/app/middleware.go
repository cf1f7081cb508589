package app

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/manasranjandas/portfolio-go/internal/ctxutil"
	domerrors "github.com/manasranjandas/portfolio-go/internal/errors"
	"github.com/manasranjandas/portfolio-go/internal/logger"
	"github.com/manasranjandas/portfolio-go/internal/metrics"
	"github.com/manasranjandas/portfolio-go/internal/ratelimit"
)

const requestIDHeader = "X-Request-Id"

// corsMiddleware allows the portfolio frontend origin. Preflight requests
// are answered here with 204.
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if reqOrigin := c.GetHeader("Origin"); reqOrigin != "" && (origin == "*" || strings.EqualFold(reqOrigin, origin)) {
			c.Header("Access-Control-Allow-Origin", reqOrigin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, "+AdminPasswordHeader)
			c.Header("Access-Control-Max-Age", "600")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Next()
	}
}

// requestContextMiddleware assigns a request ID (reusing a caller-supplied
// one) and stores it, the client IP and the route in the request context.
func requestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = c.GetHeader("X-Correlation-Id")
		}
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.WithClientIP(ctx, c.ClientIP())
		if route := c.FullPath(); route != "" {
			ctx = ctxutil.WithRoute(ctx, route)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// loggingMiddleware logs requests with status-based levels:
// 5xx=Error, 4xx=Warn, 404=Debug, 3xx/2xx=Debug.
func loggingMiddleware(log *logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(route, strconv.Itoa(status))

		entry := log.WithField("http_method", c.Request.Method).
			WithField("http_path", c.Request.URL.Path).
			WithField("http_status", status).
			WithField("duration_ms", time.Since(start).Milliseconds())

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			entry.ErrorContext(ctx, "HTTP request failed")
		case status >= 400 && status != http.StatusNotFound:
			entry.WarnContext(ctx, "HTTP request rejected")
		case status == http.StatusNotFound:
			entry.DebugContext(ctx, "HTTP request not found")
		default:
			entry.DebugContext(ctx, "HTTP request completed")
		}
	}
}

// rateLimitMiddleware rejects clients that exhausted limiter with 429 and
// a Retry-After header. A nil limiter disables the check.
func rateLimitMiddleware(limiter *ratelimit.KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := c.ClientIP()
		if limiter.Allow(key) {
			c.Next()
			return
		}

		if wait := limiter.RetryAfter(key); wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		}
		abortWithError(c, domerrors.ErrRateLimitExceeded, "Too many requests, please try again later")
	}
}

// errorBody is the JSON error envelope shared by every API route.
func errorBody(message string) gin.H {
	return gin.H{"success": false, "error": message}
}

func abortWithError(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(domerrors.HTTPStatus(err), errorBody(message))
}
