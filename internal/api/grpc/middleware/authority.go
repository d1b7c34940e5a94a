package middleware

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/identity-server/internal/api/authority"
	grpccontext "github.com/dtroode/identity-server/internal/api/grpc/context"
	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
)

// Authority validates the authority metadata of incoming calls. It does not
// authenticate: an upstream layer is trusted to have produced the values.
type Authority struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthority creates a new Authority middleware instance.
func NewAuthority(contextManager model.ContextManager, logger *logger.Logger) *Authority {
	return &Authority{contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authority metadata and returns a context carrying it.
// Calls without any authority key proceed as anonymous.
func (m *Authority) AuthFunc(ctx context.Context) (context.Context, error) {
	md, _ := metadata.FromIncomingContext(ctx)

	a, err := authority.Parse(grpccontext.Lookup(md))
	if err != nil {
		m.logger.Debug("malformed authority metadata",
			"error", err.Error())
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	return m.contextManager.SetAuthorityToContext(ctx, a), nil
}
