package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gulfsteel/steelstore-api/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with a request id and logs it once it completes
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		ctx := logger.WithContextFields(c.Request.Context(),
			logger.String("request_id", requestID),
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		fields := []logger.Field{
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			logger.Error(ctx, "request failed", fields...)
		case status >= 400:
			logger.Warn(ctx, "request rejected", fields...)
		default:
			logger.Info(ctx, "request completed", fields...)
		}
	}
}
