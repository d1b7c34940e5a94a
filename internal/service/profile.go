package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
	"github.com/dtroode/identity-server/internal/validate"
)

// Profiles manages profiles keyed by the owning account id. The account id
// is assigned by the account service, so creation checks that the account
// exists there.
type Profiles struct {
	store    model.ProfileStore
	accounts model.AccountChecker
	policy   Policy
	logger   *logger.Logger
}

func NewProfiles(store model.ProfileStore, accounts model.AccountChecker, logger *logger.Logger) *Profiles {
	return &Profiles{
		store:    store,
		accounts: accounts,
		policy:   ProfilePolicy(),
		logger:   logger,
	}
}

// Read returns the profile matching account id and/or name.
func (s *Profiles) Read(ctx context.Context, authority *model.Authority, accountID, name *string) (model.Profile, error) {
	s.logger.Debug("Profile service: reading profile",
		"account_id", deref(accountID),
		"name", deref(name))

	if err := checkAuthority(authority); err != nil {
		return model.Profile{}, err
	}

	filter, err := s.policy.filter(accountID, name)
	if err != nil {
		return model.Profile{}, err
	}

	onlyUser, err := gate(authority)
	if err != nil {
		return model.Profile{}, err
	}

	return s.locate(ctx, authority, onlyUser, filter)
}

// Create stores a profile for an existing account. Restricted callers may
// only create their own profile.
func (s *Profiles) Create(ctx context.Context, authority *model.Authority, in model.ProfileInput) (model.Profile, error) {
	s.logger.Debug("Profile service: creating profile",
		"account_id", deref(in.AccountID),
		"name", deref(in.Name))

	if err := checkAuthority(authority); err != nil {
		return model.Profile{}, err
	}
	if in.AccountID == nil {
		return model.Profile{}, model.NewIllegalArgument("account id is required")
	}
	if in.Name == nil {
		return model.Profile{}, model.NewIllegalArgument("profile name is required")
	}
	if !validate.UUID(in.AccountID) {
		return model.Profile{}, model.NewIllegalArgument("account id is malformed")
	}
	if err := s.policy.validName(in.Name); err != nil {
		return model.Profile{}, err
	}

	onlyUser, err := gate(authority)
	if err != nil {
		return model.Profile{}, err
	}

	accountID := uuid.MustParse(*in.AccountID)
	if err := s.policy.checkOwnership(authority, onlyUser, accountID); err != nil {
		return model.Profile{}, err
	}

	exists, err := s.accounts.Exists(ctx, authority, accountID)
	if err != nil {
		s.logger.Error("Profile service: failed to check account",
			"account_id", accountID,
			"error", err.Error())
		return model.Profile{}, model.Unexpected(fmt.Errorf("failed to check account: %w", err))
	}
	if !exists {
		return model.Profile{}, model.NewIllegalArgument("account %s does not exist", accountID)
	}

	created, err := s.store.Create(ctx, model.Profile{AccountID: accountID, Name: *in.Name})
	if err != nil {
		s.logger.Info("Profile service: failed to create profile",
			"account_id", accountID,
			"error", err.Error())
		return model.Profile{}, model.Unexpected(fmt.Errorf("failed to create profile: %w", err))
	}

	s.logger.Info("Profile service: profile created",
		"account_id", created.AccountID,
		"name", created.Name)

	return created, nil
}

// Update replaces the name of the profile matching account id and/or name.
// The account id of a profile cannot change.
func (s *Profiles) Update(ctx context.Context, authority *model.Authority, accountID, name *string, in model.ProfileInput) (model.Profile, error) {
	s.logger.Debug("Profile service: updating profile",
		"account_id", deref(accountID),
		"name", deref(name))

	if err := checkAuthority(authority); err != nil {
		return model.Profile{}, err
	}

	filter, err := s.policy.filter(accountID, name)
	if err != nil {
		return model.Profile{}, err
	}
	if !validate.UUID(in.AccountID) {
		return model.Profile{}, model.NewIllegalArgument("account id is malformed")
	}
	if err := s.policy.validName(in.Name); err != nil {
		return model.Profile{}, err
	}

	onlyUser, err := gate(authority)
	if err != nil {
		return model.Profile{}, err
	}

	current, err := s.locate(ctx, authority, onlyUser, filter)
	if err != nil {
		return model.Profile{}, err
	}
	if in.AccountID != nil && uuid.MustParse(*in.AccountID) != current.AccountID {
		return model.Profile{}, model.NewIllegalArgument("account id of a profile cannot change")
	}

	updated, err := s.store.UpdateByFilter(ctx, model.ByID(current.AccountID), model.ProfilePatch{Name: in.Name})
	if err != nil {
		s.logger.Info("Profile service: failed to update profile",
			"account_id", current.AccountID,
			"error", err.Error())
		return model.Profile{}, model.Unexpected(fmt.Errorf("failed to update profile: %w", err))
	}

	s.logger.Info("Profile service: profile updated",
		"account_id", updated.AccountID)

	return updated, nil
}

// Delete removes the profile matching account id and/or name.
func (s *Profiles) Delete(ctx context.Context, authority *model.Authority, accountID, name *string) error {
	s.logger.Debug("Profile service: deleting profile",
		"account_id", deref(accountID),
		"name", deref(name))

	if err := checkAuthority(authority); err != nil {
		return err
	}

	filter, err := s.policy.filter(accountID, name)
	if err != nil {
		return err
	}

	onlyUser, err := gate(authority)
	if err != nil {
		return err
	}

	current, err := s.locate(ctx, authority, onlyUser, filter)
	if err != nil {
		return err
	}

	deleted, err := s.store.DeleteByFilter(ctx, model.ByID(current.AccountID))
	if err != nil {
		s.logger.Error("Profile service: failed to delete profile",
			"account_id", current.AccountID,
			"error", err.Error())
		return model.Unexpected(fmt.Errorf("failed to delete profile: %w", err))
	}
	if deleted == 0 {
		return model.NewNotFound("profile not found")
	}

	s.logger.Info("Profile service: profile deleted",
		"account_id", current.AccountID)

	return nil
}

// HandleAccountDeleted removes the profile of a deleted account on behalf of
// the system. Failures are logged and dropped; the event is not retried.
func (s *Profiles) HandleAccountDeleted(ctx context.Context, accountID string) {
	err := s.Delete(ctx, model.SystemAuthority(), &accountID, nil)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		s.logger.Debug("Profile service: no profile for deleted account",
			"account_id", accountID)
	default:
		s.logger.Warn("Profile service: failed to delete profile of deleted account",
			"account_id", accountID,
			"error", err.Error())
	}
}

func (s *Profiles) locate(ctx context.Context, authority *model.Authority, onlyUser bool, filter model.Filter) (model.Profile, error) {
	profiles, err := s.store.ReadByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("Profile service: failed to read profile",
			"error", err.Error())
		return model.Profile{}, model.Unexpected(fmt.Errorf("failed to read profile: %w", err))
	}
	if len(profiles) == 0 {
		return model.Profile{}, s.policy.missing(onlyUser)
	}

	profile := profiles[0]
	if err := s.policy.checkOwnership(authority, onlyUser, profile.AccountID); err != nil {
		return model.Profile{}, err
	}

	return profile, nil
}
