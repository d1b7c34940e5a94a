package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/identity-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session model.Session) error {
	const query = `
        INSERT INTO sessions (
            id, subject_id, roles, auth_time, expires_at, revoked_at, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7)
    `

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		session.ID, session.SubjectID, int16(session.Roles), session.AuthTime, session.ExpiresAt,
		session.RevokedAt, session.CreatedAt,
	)
	if err != nil {
		return classify(err, "create session")
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	const query = `
        SELECT id, subject_id, roles, auth_time, expires_at, revoked_at, created_at
        FROM sessions WHERE id = $1
    `
	var (
		s     model.Session
		roles int16
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.SubjectID, &roles, &s.AuthTime, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session by id: %w", err)
	}
	s.Roles = model.Role(roles)
	return s, nil
}

func (r *SessionRepository) RevokeAllBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	const query = `
        UPDATE sessions SET revoked_at = NOW()
        WHERE subject_id = $1 AND revoked_at IS NULL
    `
	cmd, err := r.db.Exec(ctx, query, subjectID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions by subject: %w", err)
	}
	return cmd.RowsAffected(), nil
}
