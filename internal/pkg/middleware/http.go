package middleware

import (
	"time"

	"github.com/fekuna/hotel-stock-service/internal/auth"
	"github.com/fekuna/hotel-stock-service/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Identity copies the X-User-ID header onto the request context.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(auth.HeaderUserID); userID != "" {
			c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))
		}
		c.Next()
	}
}

func RequestLogger(log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_id", auth.GetUserID(c.Request.Context())),
		)
	}
}
