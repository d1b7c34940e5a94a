package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
)

// AccountService is the account resource as seen by the HTTP layer. It is
// served for both /accounts and /user-accounts.
type AccountService interface {
	Read(ctx context.Context, authority *model.Authority, id, name *string) (model.Account, error)
	Create(ctx context.Context, authority *model.Authority, in model.AccountInput) (model.Account, error)
	Update(ctx context.Context, authority *model.Authority, id, name *string, in model.AccountInput) (model.Account, error)
	Delete(ctx context.Context, authority *model.Authority, id, name *string) error
}

// Account serves account CRUD over HTTP. Records are addressed by the id
// and name query parameters.
type Account struct {
	service        AccountService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAccount(service AccountService, contextManager model.ContextManager, logger *logger.Logger) *Account {
	return &Account{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Account) Read(c *gin.Context) {
	ctx := c.Request.Context()
	authority, _ := h.contextManager.GetAuthorityFromContext(ctx)

	account, err := h.service.Read(ctx, authority, queryParam(c, "id"), queryParam(c, "name"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *Account) Create(c *gin.Context) {
	ctx := c.Request.Context()
	authority, _ := h.contextManager.GetAuthorityFromContext(ctx)

	var in model.AccountInput
	if !bindJSON(c, &in) {
		return
	}

	account, err := h.service.Create(ctx, authority, in)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *Account) Update(c *gin.Context) {
	ctx := c.Request.Context()
	authority, _ := h.contextManager.GetAuthorityFromContext(ctx)

	var in model.AccountInput
	if !bindJSON(c, &in) {
		return
	}

	account, err := h.service.Update(ctx, authority, queryParam(c, "id"), queryParam(c, "name"), in)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *Account) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	authority, _ := h.contextManager.GetAuthorityFromContext(ctx)

	if err := h.service.Delete(ctx, authority, queryParam(c, "id"), queryParam(c, "name")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
