package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/identity-server/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]model.Profile
	byName   map[string]uuid.UUID
	now      func() time.Time
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[uuid.UUID]model.Profile),
		byName:   make(map[string]uuid.UUID),
		now:      time.Now,
	}
}

func (r *ProfileRepository) ReadByFilter(_ context.Context, filter model.Filter) ([]model.Profile, error) {
	if filter.IsEmpty() {
		return nil, model.NewIllegalArgument("empty filter")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.match(filter)
	if !ok {
		return nil, nil
	}

	return []model.Profile{r.profiles[id]}, nil
}

func (r *ProfileRepository) Create(_ context.Context, profile model.Profile) (model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.profiles[profile.AccountID]; taken {
		return model.Profile{}, model.NewConflict("account %s already has a profile", profile.AccountID)
	}
	if _, taken := r.byName[profile.Name]; taken {
		return model.Profile{}, model.NewConflict("name %q is taken", profile.Name)
	}

	now := r.now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	r.profiles[profile.AccountID] = profile
	r.byName[profile.Name] = profile.AccountID

	return profile, nil
}

func (r *ProfileRepository) UpdateByFilter(_ context.Context, filter model.Filter, patch model.ProfilePatch) (model.Profile, error) {
	if filter.IsEmpty() {
		return model.Profile{}, model.NewIllegalArgument("empty filter")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.match(filter)
	if !ok {
		return model.Profile{}, model.NewNotFound("profile not found")
	}
	profile := r.profiles[id]

	if patch.Name != nil && *patch.Name != profile.Name {
		if _, taken := r.byName[*patch.Name]; taken {
			return model.Profile{}, model.NewConflict("name %q is taken", *patch.Name)
		}
		delete(r.byName, profile.Name)
		profile.Name = *patch.Name
		r.byName[profile.Name] = id
	}
	profile.UpdatedAt = r.now()

	r.profiles[id] = profile

	return profile, nil
}

func (r *ProfileRepository) DeleteByFilter(_ context.Context, filter model.Filter) (int64, error) {
	if filter.IsEmpty() {
		return 0, model.NewIllegalArgument("empty filter")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.match(filter)
	if !ok {
		return 0, nil
	}

	delete(r.byName, r.profiles[id].Name)
	delete(r.profiles, id)

	return 1, nil
}

func (r *ProfileRepository) match(filter model.Filter) (uuid.UUID, bool) {
	var id uuid.UUID
	switch {
	case filter.ID != nil:
		id = *filter.ID
	default:
		byName, ok := r.byName[*filter.Name]
		if !ok {
			return uuid.Nil, false
		}
		id = byName
	}

	profile, ok := r.profiles[id]
	if !ok {
		return uuid.Nil, false
	}
	if filter.Name != nil && profile.Name != *filter.Name {
		return uuid.Nil, false
	}

	return id, true
}
