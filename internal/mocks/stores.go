// Package mocks provides testify mocks of the model interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/identity-server/internal/model"
)

// AccountStore is a mock type for the model.AccountStore type.
type AccountStore struct {
	mock.Mock
}

func (m *AccountStore) ReadByFilter(ctx context.Context, filter model.Filter) ([]model.Account, error) {
	args := m.Called(ctx, filter)
	accounts, _ := args.Get(0).([]model.Account)
	return accounts, args.Error(1)
}

func (m *AccountStore) Create(ctx context.Context, account model.Account) (model.Account, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) UpdateByFilter(ctx context.Context, filter model.Filter, patch model.AccountPatch) (model.Account, error) {
	args := m.Called(ctx, filter, patch)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) DeleteByFilter(ctx context.Context, filter model.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// ProfileStore is a mock type for the model.ProfileStore type.
type ProfileStore struct {
	mock.Mock
}

func (m *ProfileStore) ReadByFilter(ctx context.Context, filter model.Filter) ([]model.Profile, error) {
	args := m.Called(ctx, filter)
	profiles, _ := args.Get(0).([]model.Profile)
	return profiles, args.Error(1)
}

func (m *ProfileStore) Create(ctx context.Context, profile model.Profile) (model.Profile, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileStore) UpdateByFilter(ctx context.Context, filter model.Filter, patch model.ProfilePatch) (model.Profile, error) {
	args := m.Called(ctx, filter, patch)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileStore) DeleteByFilter(ctx context.Context, filter model.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// SessionStore is a mock type for the model.SessionStore type.
type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) Create(ctx context.Context, session model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) RevokeAllBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(int64), args.Error(1)
}
