package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/identity-server/internal/model"
)

// Column widths of the schema in database/migrations.
const (
	accountNameWidth  = 32
	passwordHashWidth = 128
	passwordSaltWidth = 32
	profileNameWidth  = 16
)

// classify turns constraint violations into domain errors and wraps the rest.
func classify(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return &model.Error{Kind: model.ErrConflict, Message: pgErr.ConstraintName, Err: err}
		case pgerrcode.StringDataRightTruncation, pgerrcode.CheckViolation, pgerrcode.NumericValueOutOfRange:
			return &model.Error{Kind: model.ErrIllegalArgument, Message: pgErr.Message, Err: err}
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// whereClause renders filter as a conjunction of placeholders numbered from
// offset+1.
func whereClause(filter model.Filter, idColumn string, offset int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.ID != nil {
		args = append(args, *filter.ID)
		conds = append(conds, fmt.Sprintf("%s = $%d", idColumn, offset+len(args)))
	}
	if filter.Name != nil {
		args = append(args, *filter.Name)
		conds = append(conds, fmt.Sprintf("name = $%d", offset+len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func tooLong(value *string, width int) bool {
	return value != nil && len(*value) > width
}
