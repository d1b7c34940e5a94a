package context

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/dtroode/identity-server/internal/api/authority"
	"github.com/dtroode/identity-server/internal/model"
)

// Manager represents a gRPC context manager for caller authorities.
// The authority travels in metadata under the same keys as the HTTP headers.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetAuthorityToContext replaces the authority keys of the incoming metadata.
// A nil authority removes them, which reads back as anonymous.
func (m *Manager) SetAuthorityToContext(ctx context.Context, a *model.Authority) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}

	md.Delete(authority.HeaderID)
	md.Delete(authority.HeaderRoles)
	md.Delete(authority.HeaderAuthTime)
	for k, v := range authority.Encode(a) {
		md.Set(k, v)
	}

	return metadata.NewIncomingContext(ctx, md)
}

// GetAuthorityFromContext parses the authority from incoming metadata. The
// boolean is false when the metadata is absent or malformed.
func (m *Manager) GetAuthorityFromContext(ctx context.Context) (*model.Authority, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, false
	}

	a, err := authority.Parse(Lookup(md))
	if err != nil {
		return nil, false
	}

	return a, true
}

// AppendAuthorityToOutgoingContext attaches a to the metadata of outgoing calls.
func (m *Manager) AppendAuthorityToOutgoingContext(ctx context.Context, a *model.Authority) context.Context {
	encoded := authority.Encode(a)
	if len(encoded) == 0 {
		return ctx
	}

	kv := make([]string, 0, 2*len(encoded))
	for k, v := range encoded {
		kv = append(kv, k, v)
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

// Lookup adapts metadata to the authority header lookup.
func Lookup(md metadata.MD) authority.Lookup {
	return func(key string) (string, bool) {
		values := md.Get(key)
		if len(values) == 0 {
			return "", false
		}
		return values[0], true
	}
}
