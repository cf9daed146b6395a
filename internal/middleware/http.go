package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mroshb/roommatch/internal/metrics"
	"github.com/mroshb/roommatch/pkg/errors"
	"github.com/mroshb/roommatch/pkg/logger"
)

// Context keys set by the middleware
const (
	ContextUserID    = "user_id"
	ContextRequestID = "request_id"
)

// ErrorBody is the JSON shape of every API error
type ErrorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// AbortWithError writes err as an API error and stops the chain
func AbortWithError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			"path", c.FullPath(),
			"request_id", c.GetString(ContextRequestID),
			"error", err,
		)
	}
	c.AbortWithStatusJSON(status, ErrorBody{
		Code:  errors.CodeOf(err),
		Error: errors.PublicMessage(err),
	})
}

// Authenticator resolves a bearer token to a user id
type Authenticator interface {
	Authenticate(token string) (uint, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's id under ContextUserID
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			AbortWithError(c, errors.New(errors.ErrCodeUnauthorized, "missing bearer token"))
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if raw == "" {
			AbortWithError(c, errors.New(errors.ErrCodeUnauthorized, "missing bearer token"))
			return
		}

		userID, err := auth.Authenticate(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller set by RequireAuth
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

// RateLimit counts requests per authenticated user, or per client IP when
// the route is public
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id := UserID(c); id != 0 {
			key = fmt.Sprintf("user:%d", id)
		}

		// errors are logged by the limiter, which already failed open
		allowed, _ := limiter.Allow(c.Request.Context(), key)
		if !allowed {
			AbortWithError(c, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests, try again later"))
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request and tags it with a request id
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-Id", reqID)
		c.Set(ContextRequestID, reqID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, fmt.Sprintf("%d", status)).Inc()
		metrics.HTTPLatency.WithLabelValues(route, c.Request.Method).Observe(latency.Seconds())

		kv := []interface{}{
			"request_id", reqID,
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if id := UserID(c); id != 0 {
			kv = append(kv, "user_id", id)
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP request", kv...)
		case status >= http.StatusBadRequest:
			logger.Warn("HTTP request", kv...)
		default:
			logger.Info("HTTP request", kv...)
		}
	}
}

// CORS allows the configured browser origins. A "*" entry allows any origin.
func CORS(allowed []string) gin.HandlerFunc {
	allowAll := false
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		origins[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := origins[origin]; ok || allowAll {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")

		// Handle preflight request
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
