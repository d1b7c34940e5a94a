package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStore defines persistence operations for account-like resources.
// Implementations enforce name uniqueness with a storage constraint.
type AccountStore interface {
	ReadByFilter(ctx context.Context, filter Filter) ([]Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	UpdateByFilter(ctx context.Context, filter Filter, patch AccountPatch) (Account, error)
	DeleteByFilter(ctx context.Context, filter Filter) (int64, error)
}

// Account is a stored identity with its credential. The same shape backs both
// the account and the user-account resources.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	PasswordSalt string    `json:"passwordSalt,omitempty"`
	Roles        Role      `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WithoutSecrets returns a copy of the account with its credential removed.
func (a Account) WithoutSecrets() Account {
	a.PasswordHash = ""
	a.PasswordSalt = ""
	return a
}

// AccountInput carries caller-supplied fields. Nil fields are absent.
type AccountInput struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
	Roles    *Role   `json:"roles"`
}

// AccountPatch carries replacement values for an update. Nil fields are kept.
type AccountPatch struct {
	Name         *string
	PasswordHash *string
	PasswordSalt *string
	Roles        *Role
}

// Filter selects records by id and/or name. Both conditions are AND-combined.
type Filter struct {
	ID   *uuid.UUID
	Name *string
}

// IsEmpty reports whether the filter has no condition.
func (f Filter) IsEmpty() bool {
	return f.ID == nil && f.Name == nil
}

// ByID builds a filter selecting a single id.
func ByID(id uuid.UUID) Filter {
	return Filter{ID: &id}
}
