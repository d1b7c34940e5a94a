package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/identity-server/internal/model"
)

var profileRowColumns = []string{"account_id", "name", "created_at", "updated_at"}

func TestProfileRepository_ReadByFilter(t *testing.T) {
	db, mock := newMockConnection(t)
	owner := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM profiles WHERE account_id = \$1`).
		WithArgs(owner).
		WillReturnRows(pgxmock.NewRows(profileRowColumns).AddRow(owner, "nick", now, now))
	mock.ExpectRollback()

	got, err := NewProfileRepository(db).ReadByFilter(context.Background(), model.ByID(owner))
	require.NoError(t, err)
	assert.Equal(t, []model.Profile{{AccountID: owner, Name: "nick", CreatedAt: now, UpdatedAt: now}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_Create(t *testing.T) {
	owner := uuid.New()
	now := time.Now()

	tests := []struct {
		name      string
		profile   model.Profile
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name:    "success",
			profile: model.Profile{AccountID: owner, Name: "nick"},
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO profiles`).
					WithArgs(owner, "nick").
					WillReturnRows(pgxmock.NewRows(profileRowColumns).AddRow(owner, "nick", now, now))
			},
		},
		{
			name:    "account already has a profile",
			profile: model.Profile{AccountID: owner, Name: "nick"},
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO profiles`).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "profiles_pkey"})
			},
			wantErr: model.ErrConflict,
		},
		{
			name:      "oversize name",
			profile:   model.Profile{AccountID: owner, Name: "abcdefghijklmnopq"},
			setupMock: func(pgxmock.PgxPoolIface) {},
			wantErr:   model.ErrIllegalArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockConnection(t)
			tt.setupMock(mock)

			saved, err := NewProfileRepository(db).Create(context.Background(), tt.profile)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.profile.AccountID, saved.AccountID)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestProfileRepository_UpdateAndDelete(t *testing.T) {
	db, mock := newMockConnection(t)
	repo := NewProfileRepository(db)
	owner := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`UPDATE profiles SET`).
		WithArgs(ptr("renamed"), owner).
		WillReturnRows(pgxmock.NewRows(profileRowColumns).AddRow(owner, "renamed", now, now))
	mock.ExpectQuery(`UPDATE profiles SET`).
		WithArgs(ptr("renamed"), "ghost").
		WillReturnRows(pgxmock.NewRows(profileRowColumns))
	mock.ExpectExec(`DELETE FROM profiles WHERE account_id = \$1`).
		WithArgs(owner).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	updated, err := repo.UpdateByFilter(context.Background(), model.ByID(owner), model.ProfilePatch{Name: ptr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	_, err = repo.UpdateByFilter(context.Background(), model.Filter{Name: ptr("ghost")}, model.ProfilePatch{Name: ptr("renamed")})
	assert.ErrorIs(t, err, model.ErrNotFound)

	n, err := repo.DeleteByFilter(context.Background(), model.ByID(owner))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
