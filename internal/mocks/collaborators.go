package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/identity-server/internal/model"
)

// SessionInvalidator is a mock type for the model.SessionInvalidator type.
type SessionInvalidator struct {
	mock.Mock
}

func (m *SessionInvalidator) Logout(ctx context.Context, authority *model.Authority, subjectID uuid.UUID) error {
	args := m.Called(ctx, authority, subjectID)
	return args.Error(0)
}

// AccountChecker is a mock type for the model.AccountChecker type.
type AccountChecker struct {
	mock.Mock
}

func (m *AccountChecker) Exists(ctx context.Context, authority *model.Authority, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, authority, accountID)
	return args.Bool(0), args.Error(1)
}

// EventPublisher is a mock type for the model.EventPublisher type.
type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishAccountDeleted(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// TokenManager is a mock type for the model.TokenManager type.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) Generate(session model.Session) (string, error) {
	args := m.Called(session)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) Parse(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
