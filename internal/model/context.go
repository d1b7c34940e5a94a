package model

import "context"

// ContextManager stores the caller authority in a request context.
type ContextManager interface {
	SetAuthorityToContext(ctx context.Context, authority *Authority) context.Context
	GetAuthorityFromContext(ctx context.Context) (*Authority, bool)
}
