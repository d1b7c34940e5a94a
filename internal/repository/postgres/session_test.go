package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/identity-server/internal/model"
)

func TestSessionRepository(t *testing.T) {
	db, mock := newMockConnection(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	session := model.Session{
		ID:        uuid.New(),
		SubjectID: uuid.New(),
		Roles:     model.RoleUser,
		AuthTime:  now,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs(session.ID, session.SubjectID, int16(model.RoleUser), session.AuthTime, session.ExpiresAt, session.RevokedAt, session.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`FROM sessions WHERE id = \$1`).
		WithArgs(session.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "subject_id", "roles", "auth_time", "expires_at", "revoked_at", "created_at"}).
			AddRow(session.ID, session.SubjectID, int16(model.RoleUser), now, now.Add(time.Hour), nil, now))
	mock.ExpectQuery(`FROM sessions WHERE id = \$1`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`UPDATE sessions SET revoked_at = NOW\(\)`).
		WithArgs(session.SubjectID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.SubjectID, got.SubjectID)
	assert.Equal(t, model.RoleUser, got.Roles)
	assert.Nil(t, got.RevokedAt)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)

	n, err := repo.RevokeAllBySubject(ctx, session.SubjectID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventBus_PublishAccountDeleted(t *testing.T) {
	db, mock := newMockConnection(t)
	id := uuid.New()

	mock.ExpectExec(`SELECT pg_notify\(\$1, \$2\)`).
		WithArgs("account_deleted", id.String()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	require.NoError(t, NewEventBus(db, "account_deleted").PublishAccountDeleted(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnection_NilPool(t *testing.T) {
	conn := &Connection{}
	assert.Error(t, conn.Ping(context.Background()))
	assert.NoError(t, conn.Close())
}
