package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
	"github.com/dtroode/identity-server/internal/password"
	"github.com/dtroode/identity-server/internal/validate"
)

// Accounts manages account-like resources: it validates input, applies the
// authorization policy, persists through the store and triggers the session
// and event side effects. The account and user-account services are two
// instances of it with different policies.
//
// Side effects run after the store has committed and are not compensated:
// when session invalidation or event publication fails the mutation stays in
// place and the caller receives an unexpected error.
type Accounts struct {
	store    model.AccountStore
	sessions model.SessionInvalidator
	events   model.EventPublisher
	hasher   *password.Hasher
	policy   Policy
	logger   *logger.Logger

	now     func() time.Time
	newSalt func() (string, error)
}

// NewAccounts creates an account manager. events may be nil when deletions
// need not be announced.
func NewAccounts(
	store model.AccountStore,
	sessions model.SessionInvalidator,
	events model.EventPublisher,
	hasher *password.Hasher,
	policy Policy,
	logger *logger.Logger,
) *Accounts {
	return &Accounts{
		store:    store,
		sessions: sessions,
		events:   events,
		hasher:   hasher,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
		newSalt:  password.GenerateSalt,
	}
}

// Read returns the account matching id and/or name.
func (s *Accounts) Read(ctx context.Context, authority *model.Authority, id, name *string) (model.Account, error) {
	s.logger.Debug("Account service: reading "+s.policy.Resource,
		"id", deref(id),
		"name", deref(name))

	if err := checkAuthority(authority); err != nil {
		return model.Account{}, err
	}

	filter, err := s.policy.filter(id, name)
	if err != nil {
		return model.Account{}, err
	}

	onlyUser, err := gate(authority)
	if err != nil {
		return model.Account{}, err
	}

	account, err := s.locate(ctx, authority, onlyUser, filter)
	if err != nil {
		return model.Account{}, err
	}

	return present(authority, account), nil
}

// Create stores a new account. The id is assigned by the store. Creation is
// open to every caller, including anonymous ones.
func (s *Accounts) Create(ctx context.Context, authority *model.Authority, in model.AccountInput) (model.Account, error) {
	s.logger.Debug("Account service: creating "+s.policy.Resource,
		"name", deref(in.Name))

	if err := checkAuthority(authority); err != nil {
		return model.Account{}, err
	}
	if in.Name == nil {
		return model.Account{}, model.NewIllegalArgument("%s name is required", s.policy.Resource)
	}
	if in.Password == nil {
		return model.Account{}, model.NewIllegalArgument("password is required")
	}
	if err := s.validInput(in); err != nil {
		return model.Account{}, err
	}

	hash, salt, err := s.hashPassword(*in.Password)
	if err != nil {
		return model.Account{}, err
	}

	account := model.Account{
		Name:         *in.Name,
		PasswordHash: hash,
		PasswordSalt: salt,
		Roles:        model.RoleNone,
	}
	if in.Roles != nil {
		account.Roles = *in.Roles
	}

	created, err := s.store.Create(ctx, account)
	if err != nil {
		s.logFailure("failed to create "+s.policy.Resource, err, "name", account.Name)
		return model.Account{}, model.Unexpected(fmt.Errorf("failed to create %s: %w", s.policy.Resource, err))
	}

	s.logger.Info("Account service: "+s.policy.Resource+" created",
		"id", created.ID,
		"name", created.Name)

	return present(authority, created), nil
}

// Update replaces the supplied fields of the account matching id and/or name
// and terminates the sessions of that account.
func (s *Accounts) Update(ctx context.Context, authority *model.Authority, id, name *string, in model.AccountInput) (model.Account, error) {
	s.logger.Debug("Account service: updating "+s.policy.Resource,
		"id", deref(id),
		"name", deref(name))

	if err := checkAuthority(authority); err != nil {
		return model.Account{}, err
	}

	filter, err := s.policy.filter(id, name)
	if err != nil {
		return model.Account{}, err
	}
	if err := s.validInput(in); err != nil {
		return model.Account{}, err
	}

	onlyUser, err := gate(authority)
	if err != nil {
		return model.Account{}, err
	}
	if err := s.policy.checkWindow(authority, s.now()); err != nil {
		return model.Account{}, err
	}

	current, err := s.locate(ctx, authority, onlyUser, filter)
	if err != nil {
		return model.Account{}, err
	}

	patch := model.AccountPatch{Name: in.Name, Roles: in.Roles}
	if in.Password != nil {
		hash, salt, err := s.hashPassword(*in.Password)
		if err != nil {
			return model.Account{}, err
		}
		patch.PasswordHash = &hash
		patch.PasswordSalt = &salt
	}

	updated, err := s.store.UpdateByFilter(ctx, model.ByID(current.ID), patch)
	if err != nil {
		s.logFailure("failed to update "+s.policy.Resource, err, "id", current.ID)
		return model.Account{}, model.Unexpected(fmt.Errorf("failed to update %s: %w", s.policy.Resource, err))
	}

	if err := s.invalidateSessions(ctx, authority, current.ID); err != nil {
		return model.Account{}, err
	}

	s.logger.Info("Account service: "+s.policy.Resource+" updated",
		"id", updated.ID)

	return present(authority, updated), nil
}

// Delete removes the account matching id and/or name, terminates its sessions
// and announces the deletion.
func (s *Accounts) Delete(ctx context.Context, authority *model.Authority, id, name *string) error {
	s.logger.Debug("Account service: deleting "+s.policy.Resource,
		"id", deref(id),
		"name", deref(name))

	if err := checkAuthority(authority); err != nil {
		return err
	}

	filter, err := s.policy.filter(id, name)
	if err != nil {
		return err
	}

	onlyUser, err := gate(authority)
	if err != nil {
		return err
	}
	if s.policy.WindowOnDelete {
		if err := s.policy.checkWindow(authority, s.now()); err != nil {
			return err
		}
	}

	current, err := s.locate(ctx, authority, onlyUser, filter)
	if err != nil {
		return err
	}

	deleted, err := s.store.DeleteByFilter(ctx, model.ByID(current.ID))
	if err != nil {
		s.logFailure("failed to delete "+s.policy.Resource, err, "id", current.ID)
		return model.Unexpected(fmt.Errorf("failed to delete %s: %w", s.policy.Resource, err))
	}
	if deleted == 0 {
		return model.NewNotFound("%s not found", s.policy.Resource)
	}

	// Both side effects run regardless of each other; the first failure wins.
	invalidateErr := s.invalidateSessions(ctx, authority, current.ID)

	if s.events != nil {
		if err := s.events.PublishAccountDeleted(ctx, current.ID); err != nil {
			s.logFailure("failed to publish deletion", err, "id", current.ID)
			if invalidateErr == nil {
				return model.Unexpected(fmt.Errorf("failed to publish %s deletion: %w", s.policy.Resource, err))
			}
		}
	}
	if invalidateErr != nil {
		return invalidateErr
	}

	s.logger.Info("Account service: "+s.policy.Resource+" deleted",
		"id", current.ID)

	return nil
}

// Exists reports whether the account with the given id exists and is visible
// to authority.
func (s *Accounts) Exists(ctx context.Context, authority *model.Authority, accountID uuid.UUID) (bool, error) {
	id := accountID.String()

	_, err := s.Read(ctx, authority, &id, nil)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *Accounts) locate(ctx context.Context, authority *model.Authority, onlyUser bool, filter model.Filter) (model.Account, error) {
	accounts, err := s.store.ReadByFilter(ctx, filter)
	if err != nil {
		s.logFailure("failed to read "+s.policy.Resource, err)
		return model.Account{}, model.Unexpected(fmt.Errorf("failed to read %s: %w", s.policy.Resource, err))
	}
	if len(accounts) == 0 {
		return model.Account{}, s.policy.missing(onlyUser)
	}

	account := accounts[0]
	if err := s.policy.checkOwnership(authority, onlyUser, account.ID); err != nil {
		return model.Account{}, err
	}

	return account, nil
}

func (s *Accounts) validInput(in model.AccountInput) error {
	if err := s.policy.validName(in.Name); err != nil {
		return err
	}
	if !validate.Password(in.Password) {
		return model.NewIllegalArgument("password is malformed")
	}
	if !validate.Roles(in.Roles) {
		return model.NewIllegalArgument("roles are out of range")
	}
	return nil
}

func (s *Accounts) hashPassword(plain string) (hash, salt string, err error) {
	salt, err = s.newSalt()
	if err != nil {
		s.logger.Error("Account service: failed to generate salt",
			"error", err.Error())
		return "", "", model.NewUnexpected(err)
	}

	return s.hasher.Hash(plain, salt), salt, nil
}

func (s *Accounts) invalidateSessions(ctx context.Context, authority *model.Authority, accountID uuid.UUID) error {
	if err := s.sessions.Logout(ctx, authority, accountID); err != nil {
		s.logFailure("failed to invalidate sessions", err, "id", accountID)
		return model.Unexpected(fmt.Errorf("failed to invalidate sessions: %w", err))
	}
	return nil
}

// logFailure logs expected outcomes at Info and everything else at Error.
func (s *Accounts) logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err.Error())
	if model.IsDomain(err) {
		s.logger.Info("Account service: "+msg, args...)
		return
	}
	s.logger.Error("Account service: "+msg, args...)
}

// present strips credential material unless the caller holds SYSTEM.
func present(authority *model.Authority, account model.Account) model.Account {
	if revealsSecrets(authority) {
		return account
	}
	return account.WithoutSecrets()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
