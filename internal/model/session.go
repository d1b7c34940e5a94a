package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists issued sessions.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	RevokeAllBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error)
}

// Session is a persistent login session. Its token is a signed JWT whose
// claims reproduce the authority below.
type Session struct {
	ID        uuid.UUID
	SubjectID uuid.UUID
	Roles     Role
	AuthTime  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Authority returns the authority represented by the session.
func (s Session) Authority() *Authority {
	return &Authority{
		ID:       s.SubjectID.String(),
		Roles:    s.Roles,
		AuthTime: s.AuthTime.Unix(),
	}
}

// TokenManager signs and parses session tokens.
type TokenManager interface {
	Generate(session Session) (string, error)
	Parse(token string) (uuid.UUID, error)
}
