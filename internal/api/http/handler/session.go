package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
)

type SessionService interface {
	Login(ctx context.Context, name, plain string) (string, model.Session, error)
	Authenticate(ctx context.Context, token string) (*model.Authority, error)
	Logout(ctx context.Context, authority *model.Authority, subjectID *string) error
}

// LoginRequest is the body of POST /sessions.
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse carries the signed token and the authority it stands for.
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Authority AuthorityResponse `json:"authority"`
}

// AuthorityResponse is the JSON form of an authority.
type AuthorityResponse struct {
	ID       string     `json:"id"`
	Roles    model.Role `json:"roles"`
	AuthTime int64      `json:"authTime"`
}

func toAuthorityResponse(a *model.Authority) AuthorityResponse {
	return AuthorityResponse{ID: a.ID, Roles: a.Roles, AuthTime: a.AuthTime}
}

type Session struct {
	service        SessionService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewSession(service SessionService, contextManager model.ContextManager, logger *logger.Logger) *Session {
	return &Session{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Login opens a session for the supplied credentials.
func (h *Session) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, session, err := h.service.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Authority: toAuthorityResponse(session.Authority()),
	})
}

// Authority resolves the bearer token into the authority an upstream
// gateway forwards as authority headers.
func (h *Session) Authority(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		handleError(c, model.NewAccessDenied("bearer token is required"))
		return
	}

	authority, err := h.service.Authenticate(c.Request.Context(), token)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAuthorityResponse(authority))
}

// Logout revokes every session of the subjectId query parameter.
func (h *Session) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	authority, _ := h.contextManager.GetAuthorityFromContext(ctx)

	if err := h.service.Logout(ctx, authority, queryParam(c, "subjectId")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
