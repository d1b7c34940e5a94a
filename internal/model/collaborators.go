package model

import (
	"context"

	"github.com/google/uuid"
)

// SessionInvalidator terminates every session of a subject.
type SessionInvalidator interface {
	Logout(ctx context.Context, authority *Authority, subjectID uuid.UUID) error
}

// AccountChecker reports whether an account exists.
type AccountChecker interface {
	Exists(ctx context.Context, authority *Authority, accountID uuid.UUID) (bool, error)
}

// EventPublisher announces account lifecycle events to other services.
type EventPublisher interface {
	PublishAccountDeleted(ctx context.Context, accountID uuid.UUID) error
}

// EventSource opens a stream of account-deleted notifications.
type EventSource interface {
	Listen(ctx context.Context) (EventStream, error)
}

// EventStream yields notification payloads until Close or a failure.
type EventStream interface {
	Next(ctx context.Context) (string, error)
	Close()
}
