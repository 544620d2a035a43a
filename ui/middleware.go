package ui

import (
	"time"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
}

// requestLogger logs one line per request through the application logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		logf := s.logger.Info
		if status >= 500 {
			logf = s.logger.Error
		} else if status >= 400 {
			logf = s.logger.Warn
		}
		logf("[HTTP] %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
