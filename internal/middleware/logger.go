package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tmercadante/leanscreen-go/internal/logger"
)

// RequestLogger logs each request with status and duration.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Request(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
