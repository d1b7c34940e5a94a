package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/identity-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

const accountColumns = `id, name, password_hash, password_salt, roles, created_at, updated_at`

// AccountRepository stores accounts in one of the account tables.
type AccountRepository struct {
	db    *Connection
	table string
}

// NewAccountRepository returns a repository over the accounts table.
func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{db: db, table: "accounts"}
}

// NewUserAccountRepository returns a repository over the user_accounts table.
func NewUserAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{db: db, table: "user_accounts"}
}

// ReadByFilter runs inside a transaction that is always rolled back.
func (r *AccountRepository) ReadByFilter(ctx context.Context, filter model.Filter) ([]model.Account, error) {
	if filter.IsEmpty() {
		return nil, model.NewIllegalArgument("empty filter")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	where, args := whereClause(filter, "id", 0)
	rows, err := tx.Query(ctx, `SELECT `+accountColumns+` FROM `+r.table+` WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.table, err)
	}

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", r.table, err)
	}

	return accounts, nil
}

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	if err := checkAccountWidths(&account.Name, &account.PasswordHash, &account.PasswordSalt); err != nil {
		return model.Account{}, err
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	query := `
        INSERT INTO ` + r.table + ` (id, name, password_hash, password_salt, roles)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + accountColumns

	saved, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID, account.Name, account.PasswordHash, account.PasswordSalt, int16(account.Roles),
	))
	if err != nil {
		return model.Account{}, classify(err, "create "+r.table)
	}

	return saved, nil
}

func (r *AccountRepository) UpdateByFilter(ctx context.Context, filter model.Filter, patch model.AccountPatch) (model.Account, error) {
	if filter.IsEmpty() {
		return model.Account{}, model.NewIllegalArgument("empty filter")
	}
	if err := checkAccountWidths(patch.Name, patch.PasswordHash, patch.PasswordSalt); err != nil {
		return model.Account{}, err
	}

	var roles *int16
	if patch.Roles != nil {
		v := int16(*patch.Roles)
		roles = &v
	}

	where, args := whereClause(filter, "id", 4)
	query := `
        UPDATE ` + r.table + ` SET
            name = COALESCE($1, name),
            password_hash = COALESCE($2, password_hash),
            password_salt = COALESCE($3, password_salt),
            roles = COALESCE($4, roles),
            updated_at = NOW()
        WHERE ` + where + `
        RETURNING ` + accountColumns

	args = append([]any{patch.Name, patch.PasswordHash, patch.PasswordSalt, roles}, args...)
	updated, err := scanAccount(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.NewNotFound("%s not found", r.table)
		}
		return model.Account{}, classify(err, "update "+r.table)
	}

	return updated, nil
}

func (r *AccountRepository) DeleteByFilter(ctx context.Context, filter model.Filter) (int64, error) {
	if filter.IsEmpty() {
		return 0, model.NewIllegalArgument("empty filter")
	}

	where, args := whereClause(filter, "id", 0)
	cmd, err := r.db.Exec(ctx, `DELETE FROM `+r.table+` WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", r.table, err)
	}

	return cmd.RowsAffected(), nil
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var (
		a     model.Account
		roles int16
	)
	err := row.Scan(&a.ID, &a.Name, &a.PasswordHash, &a.PasswordSalt, &roles, &a.CreatedAt, &a.UpdatedAt)
	a.Roles = model.Role(roles)
	return a, err
}

func checkAccountWidths(name, hash, salt *string) error {
	switch {
	case tooLong(name, accountNameWidth):
		return model.NewIllegalArgument("name exceeds %d characters", accountNameWidth)
	case tooLong(hash, passwordHashWidth):
		return model.NewIllegalArgument("password hash exceeds %d characters", passwordHashWidth)
	case tooLong(salt, passwordSaltWidth):
		return model.NewIllegalArgument("password salt exceeds %d characters", passwordSaltWidth)
	}
	return nil
}
