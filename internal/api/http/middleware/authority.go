package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/identity-server/internal/api/authority"
	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
)

// Authority translates the authority headers of every request into a
// context value. Malformed headers end the request with 400.
type Authority struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthority(contextManager model.ContextManager, logger *logger.Logger) *Authority {
	return &Authority{
		contextManager: contextManager,
		logger:         logger,
	}
}

func (m *Authority) Handle(c *gin.Context) {
	a, err := authority.Parse(func(key string) (string, bool) {
		values := c.Request.Header.Values(key)
		if len(values) == 0 {
			return "", false
		}
		return values[0], true
	})
	if err != nil {
		m.logger.Debug("malformed authority headers",
			"path", c.Request.URL.Path,
			"error", err.Error())
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Request = c.Request.WithContext(m.contextManager.SetAuthorityToContext(c.Request.Context(), a))
	c.Next()
}
