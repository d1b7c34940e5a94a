package context

import (
	"context"

	"github.com/dtroode/identity-server/internal/model"
)

type authorityKey struct{}

// Manager keeps the request authority as a context value.
type Manager struct{}

// NewManager creates a new HTTP context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetAuthorityToContext returns a copy of ctx carrying authority. A nil
// authority is stored as well and marks the caller as anonymous.
func (m *Manager) SetAuthorityToContext(ctx context.Context, authority *model.Authority) context.Context {
	return context.WithValue(ctx, authorityKey{}, authority)
}

// GetAuthorityFromContext reports the stored authority and whether the
// authority middleware ran for this request.
func (m *Manager) GetAuthorityFromContext(ctx context.Context) (*model.Authority, bool) {
	authority, ok := ctx.Value(authorityKey{}).(*model.Authority)
	return authority, ok
}
