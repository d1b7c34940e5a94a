// Package memory provides mutex-guarded in-process stores. They enforce the
// same constraints as the postgres repositories and back the "memory"
// database driver and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/identity-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]model.Account
	byName   map[string]uuid.UUID
	now      func() time.Time
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[uuid.UUID]model.Account),
		byName:   make(map[string]uuid.UUID),
		now:      time.Now,
	}
}

func (r *AccountRepository) ReadByFilter(_ context.Context, filter model.Filter) ([]model.Account, error) {
	if filter.IsEmpty() {
		return nil, model.NewIllegalArgument("empty filter")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.match(filter)
	if !ok {
		return nil, nil
	}

	return []model.Account{r.accounts[id]}, nil
}

func (r *AccountRepository) Create(_ context.Context, account model.Account) (model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byName[account.Name]; taken {
		return model.Account{}, model.NewConflict("name %q is taken", account.Name)
	}

	now := r.now()
	account.ID = uuid.New()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.accounts[account.ID] = account
	r.byName[account.Name] = account.ID

	return account, nil
}

func (r *AccountRepository) UpdateByFilter(_ context.Context, filter model.Filter, patch model.AccountPatch) (model.Account, error) {
	if filter.IsEmpty() {
		return model.Account{}, model.NewIllegalArgument("empty filter")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.match(filter)
	if !ok {
		return model.Account{}, model.NewNotFound("account not found")
	}
	account := r.accounts[id]

	if patch.Name != nil && *patch.Name != account.Name {
		if _, taken := r.byName[*patch.Name]; taken {
			return model.Account{}, model.NewConflict("name %q is taken", *patch.Name)
		}
		delete(r.byName, account.Name)
		account.Name = *patch.Name
		r.byName[account.Name] = id
	}
	if patch.PasswordHash != nil {
		account.PasswordHash = *patch.PasswordHash
	}
	if patch.PasswordSalt != nil {
		account.PasswordSalt = *patch.PasswordSalt
	}
	if patch.Roles != nil {
		account.Roles = *patch.Roles
	}
	account.UpdatedAt = r.now()

	r.accounts[id] = account

	return account, nil
}

func (r *AccountRepository) DeleteByFilter(_ context.Context, filter model.Filter) (int64, error) {
	if filter.IsEmpty() {
		return 0, model.NewIllegalArgument("empty filter")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.match(filter)
	if !ok {
		return 0, nil
	}

	delete(r.byName, r.accounts[id].Name)
	delete(r.accounts, id)

	return 1, nil
}

// Len returns the number of stored accounts.
func (r *AccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

func (r *AccountRepository) match(filter model.Filter) (uuid.UUID, bool) {
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

	account, ok := r.accounts[id]
	if !ok {
		return uuid.Nil, false
	}
	if filter.Name != nil && account.Name != *filter.Name {
		return uuid.Nil, false
	}

	return id, true
}
