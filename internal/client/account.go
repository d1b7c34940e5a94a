package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dtroode/identity-server/internal/api/grpc/bridge"
	grpccontext "github.com/dtroode/identity-server/internal/api/grpc/context"
	"github.com/dtroode/identity-server/internal/model"
)

var _ model.AccountChecker = (*AccountClient)(nil)

// AccountClient asks the account service whether an account exists.
type AccountClient struct {
	client         bridge.AccountBridgeClient
	contextManager *grpccontext.Manager
	timeout        time.Duration
}

// NewAccountClient creates a client on top of an established connection.
func NewAccountClient(conn grpc.ClientConnInterface, timeout time.Duration) *AccountClient {
	return &AccountClient{
		client:         bridge.NewAccountBridgeClient(conn),
		contextManager: grpccontext.NewManager(),
		timeout:        timeout,
	}
}

// DialAccountService opens a lazy plaintext connection to the account service.
func DialAccountService(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create account service client: %w", err)
	}
	return conn, nil
}

func (c *AccountClient) Exists(ctx context.Context, a *model.Authority, accountID uuid.UUID) (bool, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx = c.contextManager.AppendAuthorityToOutgoingContext(ctx, a)

	resp, err := c.client.Exists(ctx, wrapperspb.String(accountID.String()))
	if err != nil {
		return false, fromStatus(err)
	}

	return resp.GetValue(), nil
}

// fromStatus turns a gRPC status back into the domain error it was made from.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("failed to call account service: %w", err)
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return model.NewIllegalArgument("account service: %s", st.Message())
	case codes.PermissionDenied, codes.Unauthenticated:
		return model.NewAccessDenied("account service: %s", st.Message())
	case codes.NotFound:
		return model.NewNotFound("account service: %s", st.Message())
	case codes.AlreadyExists:
		return model.NewConflict("account service: %s", st.Message())
	default:
		return fmt.Errorf("failed to call account service: %w", err)
	}
}
