package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dtroode/identity-server/internal/api/grpc/bridge"
	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
)

var _ bridge.AccountBridgeServer = (*Account)(nil)

// Account exposes account existence checks to other services.
type Account struct {
	service        model.AccountChecker
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAccount creates a new gRPC account handler.
func NewAccount(service model.AccountChecker, contextManager model.ContextManager, logger *logger.Logger) *Account {
	return &Account{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Exists reports whether the account named by the request id is visible to
// the caller.
func (h *Account) Exists(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	authority, _ := h.contextManager.GetAuthorityFromContext(ctx)

	accountID, err := uuid.Parse(req.GetValue())
	if err != nil {
		return nil, handleError(model.NewIllegalArgument("account id is malformed"))
	}

	exists, err := h.service.Exists(ctx, authority, accountID)
	if err != nil {
		h.logger.Debug("account existence check failed",
			"account_id", accountID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return wrapperspb.Bool(exists), nil
}
