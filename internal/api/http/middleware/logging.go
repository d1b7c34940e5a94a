package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/identity-server/internal/logger"
)

// Logging logs method, path, duration and status of each HTTP request.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) Handle(c *gin.Context) {
	start := time.Now()

	l.logger.Info("HTTP request started",
		"method", c.Request.Method,
		"path", c.Request.URL.Path)

	c.Next()

	l.logger.Info("HTTP request completed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"duration_ms", time.Since(start).Milliseconds(),
		"status", c.Writer.Status())

	if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
		l.logger.Error("HTTP request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", errs.String(),
			"status", c.Writer.Status())
	}
}
