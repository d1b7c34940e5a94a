package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/identity-server/internal/model"
)

var (
	_ model.EventPublisher = (*EventBus)(nil)
	_ model.EventSource    = (*EventBus)(nil)
)

// EventBus carries account-deleted notifications over a Postgres channel.
// The payload is the account id in canonical text form.
type EventBus struct {
	db      *Connection
	channel string
}

func NewEventBus(db *Connection, channel string) *EventBus {
	return &EventBus{db: db, channel: channel}
}

func (b *EventBus) PublishAccountDeleted(ctx context.Context, accountID uuid.UUID) error {
	if _, err := b.db.Exec(ctx, `SELECT pg_notify($1, $2)`, b.channel, accountID.String()); err != nil {
		return fmt.Errorf("failed to publish account deletion: %w", err)
	}
	return nil
}

// Listen holds a pooled connection subscribed to the channel until the
// returned stream is closed.
func (b *EventBus) Listen(ctx context.Context) (model.EventStream, error) {
	conn, err := b.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire listener connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{b.channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to listen on %s: %w", b.channel, err)
	}

	return &listener{conn: conn}, nil
}

type listener struct {
	conn *pgxpool.Conn
}

func (l *listener) Next(ctx context.Context) (string, error) {
	n, err := l.conn.Conn().WaitForNotification(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to wait for notification: %w", err)
	}
	return n.Payload, nil
}

func (l *listener) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _ = l.conn.Exec(ctx, "UNLISTEN *")
	l.conn.Release()
}
