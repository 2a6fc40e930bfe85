package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gmar02/tccprot/pkg/logger"
)

// RequestLogger logs method, path, status and latency per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Infof(c.Request.Context(), "%s %s -> %d (%v)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
