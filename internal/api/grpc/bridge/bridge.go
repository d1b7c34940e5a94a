// Package bridge describes the AccountBridge gRPC service. The profile
// service calls it to learn whether an account exists before attaching a
// profile to it. Messages are the well-known wrapper types, so no generated
// code is needed.
package bridge

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName      = "identity.AccountBridge"
	ExistsFullMethod = "/identity.AccountBridge/Exists"
)

// AccountBridgeServer is the server API for the AccountBridge service.
type AccountBridgeServer interface {
	// Exists reports whether the account with the given id exists.
	Exists(ctx context.Context, accountID *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
}

// RegisterAccountBridgeServer registers srv on s.
func RegisterAccountBridgeServer(s grpc.ServiceRegistrar, srv AccountBridgeServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func existsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccountBridgeServer).Exists(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ExistsFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AccountBridgeServer).Exists(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the grpc.ServiceDesc for the AccountBridge service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountBridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Exists",
			Handler:    existsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "identity/account_bridge",
}

// AccountBridgeClient is the client API for the AccountBridge service.
type AccountBridgeClient interface {
	Exists(ctx context.Context, accountID *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type accountBridgeClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountBridgeClient(cc grpc.ClientConnInterface) AccountBridgeClient {
	return &accountBridgeClient{cc: cc}
}

func (c *accountBridgeClient) Exists(ctx context.Context, accountID *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, ExistsFullMethod, accountID, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
