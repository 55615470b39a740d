package middleware

import (
	"time"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestID reuses a sane incoming X-Request-ID or generates one, and exposes it
// to handlers through both the gin context and the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Header(HeaderRequestID, rid)
		c.Set(string(domain.KeyRequestID), rid)
		c.Request = c.Request.WithContext(domain.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

// AccessLog writes one structured line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Log.InfoContext(c.Request.Context(), "HTTP access",
			"rid", c.GetString(string(domain.KeyRequestID)),
			"ip", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"resp_bytes", c.Writer.Size(),
			"ua", c.Request.UserAgent(),
		)
	}
}
