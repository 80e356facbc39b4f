package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"brokerdesk/internal/pkg/response"
)

const requestIDHeader = "X-Request-ID"

// RequestID makes sure every request carries an X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			c.Request.Header.Set(requestIDHeader, id)
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request and every error attached to the
// context. Panics become a 500 envelope.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error("panic",
					append(requestFields(c, start), zap.String("panic", fmt.Sprintf("%v", recovered)), zap.ByteString("stack", debug.Stack()))...)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
				c.Abort()
				return
			}

			fields := requestFields(c, start)
			for _, err := range c.Errors {
				log.Error("request_error", append(fields, zap.Error(err.Err))...)
			}

			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				log.Error("request", fields...)
			case status >= http.StatusBadRequest:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, start time.Time) []zap.Field {
	return []zap.Field{
		zap.Int("status", c.Writer.Status()),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("query", loggedQuery(c.Request.URL)),
		zap.String("client_ip", c.ClientIP()),
		zap.String("user_id", UserID(c)),
		zap.String("request_id", c.GetHeader(requestIDHeader)),
		zap.Duration("latency", time.Since(start)),
	}
}

// loggedQuery returns the raw query with the auth token masked.
func loggedQuery(u *url.URL) string {
	if u.RawQuery == "" {
		return ""
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "[unparsable]"
	}
	if _, ok := values["token"]; ok {
		values.Set("token", "[redacted]")
	}
	return values.Encode()
}
