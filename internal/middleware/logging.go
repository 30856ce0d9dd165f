// internal/middleware/logging.go
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/inventory-pos/internal/logger"
	"github.com/javajoker/inventory-pos/internal/metrics"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an ID, hands a request-scoped logrus
// entry to handlers and records the outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		entry := logrus.WithField("request_id", requestID)
		c.Set(logger.GinKey, entry)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), entry))

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		// Route template keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()

		metrics.RequestCounter.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration.Seconds())

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"duration": duration.Milliseconds(),
			"ip":       c.ClientIP(),
		}

		switch {
		case len(c.Errors) > 0:
			entry.WithFields(fields).WithError(c.Errors.Last()).Error("Request failed")
		case status >= 500:
			entry.WithFields(fields).Error("Request processed")
		default:
			entry.WithFields(fields).Info("Request processed")
		}
	}
}
