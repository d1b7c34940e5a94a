package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/identity-server/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

const profileColumns = `account_id, name, created_at, updated_at`

type ProfileRepository struct {
	db *Connection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

// ReadByFilter runs inside a transaction that is always rolled back.
func (r *ProfileRepository) ReadByFilter(ctx context.Context, filter model.Filter) ([]model.Profile, error) {
	if filter.IsEmpty() {
		return nil, model.NewIllegalArgument("empty filter")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	where, args := whereClause(filter, "account_id", 0)
	rows, err := tx.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Profile, error) {
		return scanProfile(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile model.Profile) (model.Profile, error) {
	if tooLong(&profile.Name, profileNameWidth) {
		return model.Profile{}, model.NewIllegalArgument("name exceeds %d characters", profileNameWidth)
	}

	const query = `
        INSERT INTO profiles (account_id, name)
        VALUES ($1, $2)
        RETURNING ` + profileColumns

	saved, err := scanProfile(r.db.QueryRow(ctx, query, profile.AccountID, profile.Name))
	if err != nil {
		return model.Profile{}, classify(err, "create profile")
	}

	return saved, nil
}

func (r *ProfileRepository) UpdateByFilter(ctx context.Context, filter model.Filter, patch model.ProfilePatch) (model.Profile, error) {
	if filter.IsEmpty() {
		return model.Profile{}, model.NewIllegalArgument("empty filter")
	}
	if tooLong(patch.Name, profileNameWidth) {
		return model.Profile{}, model.NewIllegalArgument("name exceeds %d characters", profileNameWidth)
	}

	where, args := whereClause(filter, "account_id", 1)
	query := `
        UPDATE profiles SET
            name = COALESCE($1, name),
            updated_at = NOW()
        WHERE ` + where + `
        RETURNING ` + profileColumns

	updated, err := scanProfile(r.db.QueryRow(ctx, query, append([]any{patch.Name}, args...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.NewNotFound("profile not found")
		}
		return model.Profile{}, classify(err, "update profile")
	}

	return updated, nil
}

func (r *ProfileRepository) DeleteByFilter(ctx context.Context, filter model.Filter) (int64, error) {
	if filter.IsEmpty() {
		return 0, model.NewIllegalArgument("empty filter")
	}

	where, args := whereClause(filter, "account_id", 0)
	cmd, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete profile: %w", err)
	}

	return cmd.RowsAffected(), nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.AccountID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
