package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
)

type ProfileService interface {
	Read(ctx context.Context, authority *model.Authority, accountID, name *string) (model.Profile, error)
	Create(ctx context.Context, authority *model.Authority, in model.ProfileInput) (model.Profile, error)
	Update(ctx context.Context, authority *model.Authority, accountID, name *string, in model.ProfileInput) (model.Profile, error)
	Delete(ctx context.Context, authority *model.Authority, accountID, name *string) error
}

// Profile serves profile CRUD. Profiles are addressed by accountId and name.
type Profile struct {
	service        ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewProfile(service ProfileService, contextManager model.ContextManager, logger *logger.Logger) *Profile {
	return &Profile{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Profile) Read(c *gin.Context) {
	ctx := c.Request.Context()
	authority, _ := h.contextManager.GetAuthorityFromContext(ctx)

	profile, err := h.service.Read(ctx, authority, queryParam(c, "accountId"), queryParam(c, "name"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Profile) Create(c *gin.Context) {
	ctx := c.Request.Context()
	authority, _ := h.contextManager.GetAuthorityFromContext(ctx)

	var in model.ProfileInput
	if !bindJSON(c, &in) {
		return
	}

	profile, err := h.service.Create(ctx, authority, in)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Profile) Update(c *gin.Context) {
	ctx := c.Request.Context()
	authority, _ := h.contextManager.GetAuthorityFromContext(ctx)

	var in model.ProfileInput
	if !bindJSON(c, &in) {
		return
	}

	profile, err := h.service.Update(ctx, authority, queryParam(c, "accountId"), queryParam(c, "name"), in)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Profile) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	authority, _ := h.contextManager.GetAuthorityFromContext(ctx)

	if err := h.service.Delete(ctx, authority, queryParam(c, "accountId"), queryParam(c, "name")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
