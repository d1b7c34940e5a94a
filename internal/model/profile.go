package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProfileStore defines persistence operations for profiles. Filter.ID selects
// by owning account id.
type ProfileStore interface {
	ReadByFilter(ctx context.Context, filter Filter) ([]Profile, error)
	Create(ctx context.Context, profile Profile) (Profile, error)
	UpdateByFilter(ctx context.Context, filter Filter, patch ProfilePatch) (Profile, error)
	DeleteByFilter(ctx context.Context, filter Filter) (int64, error)
}

// Profile is public data attached to an account. It is keyed by the owning
// account id, which is assigned by the account service.
type Profile struct {
	AccountID uuid.UUID `json:"accountId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileInput carries caller-supplied profile fields.
type ProfileInput struct {
	AccountID *string `json:"accountId"`
	Name      *string `json:"name"`
}

// ProfilePatch carries replacement values for a profile update.
type ProfilePatch struct {
	Name *string
}
