package bridge

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type knownAccounts map[string]bool

func (k knownAccounts) Exists(_ context.Context, id *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(k[id.GetValue()]), nil
}

func TestAccountBridge_RoundTrip(t *testing.T) {
	lis := bufconn.Listen(1 << 20)

	var seen []string
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
			seen = append(seen, info.FullMethod)
			return handler(ctx, req)
		},
	))
	RegisterAccountBridgeServer(s, knownAccounts{"a": true})
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client := NewAccountBridgeClient(conn)

	got, err := client.Exists(context.Background(), wrapperspb.String("a"))
	require.NoError(t, err)
	assert.True(t, got.GetValue())

	got, err = client.Exists(context.Background(), wrapperspb.String("b"))
	require.NoError(t, err)
	assert.False(t, got.GetValue())

	assert.Equal(t, []string{ExistsFullMethod, ExistsFullMethod}, seen)
}
