package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/identity-server/internal/model"
)

const internalErrorMessage = "internal server error"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrIllegalArgument):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrAccessDenied):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes err as a JSON error body. Unclassified failures never
// leak their message.
func handleError(c *gin.Context, err error) {
	code := StatusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = internalErrorMessage
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// queryParam returns a pointer to the query value, or nil when the key is absent.
func queryParam(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	return &v
}

// bindJSON decodes the request body into dst.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		handleError(c, model.NewIllegalArgument("malformed request body"))
		return false
	}
	return true
}
