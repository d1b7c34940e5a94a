package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
	"github.com/dtroode/identity-server/internal/password"
	"github.com/dtroode/identity-server/internal/validate"
)

// Sessions issues, resolves and revokes persistent login sessions. It
// composes the account store, the session store and the token manager.
type Sessions struct {
	accounts model.AccountStore
	store    model.SessionStore
	tokens   model.TokenManager
	ttl      time.Duration
	logger   *logger.Logger

	now    func() time.Time
	verify func(plain, salt, hash string) bool
}

// missSalt stands in for the salt of an unknown account so a miss costs one
// digest like a hit does.
var missSalt = strings.Repeat("0", password.SaltLength)

func NewSessions(
	accounts model.AccountStore,
	store model.SessionStore,
	tokens model.TokenManager,
	hasher *password.Hasher,
	ttl time.Duration,
	logger *logger.Logger,
) *Sessions {
	return &Sessions{
		accounts: accounts,
		store:    store,
		tokens:   tokens,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		verify:   hasher.Verify,
	}
}

// Login checks the credential of the named account and opens a session.
func (s *Sessions) Login(ctx context.Context, name, plain string) (string, model.Session, error) {
	s.logger.Debug("Session service: login",
		"name", name)

	if !validate.Name(&name, validate.AccountNameMinLength, validate.AccountNameMaxLength) {
		return "", model.Session{}, model.NewIllegalArgument("account name is malformed")
	}
	if !validate.Password(&plain) {
		return "", model.Session{}, model.NewIllegalArgument("password is malformed")
	}

	accounts, err := s.accounts.ReadByFilter(ctx, model.Filter{Name: &name})
	if err != nil {
		s.logger.Error("Session service: failed to read account",
			"name", name,
			"error", err.Error())
		return "", model.Session{}, model.Unexpected(fmt.Errorf("failed to read account: %w", err))
	}
	if len(accounts) == 0 {
		s.verify(plain, missSalt, "")
		s.logger.Info("Session service: invalid credentials",
			"name", name)
		return "", model.Session{}, model.NewAccessDenied("invalid credentials")
	}
	if !s.verify(plain, accounts[0].PasswordSalt, accounts[0].PasswordHash) {
		s.logger.Info("Session service: invalid credentials",
			"name", name)
		return "", model.Session{}, model.NewAccessDenied("invalid credentials")
	}

	now := s.now().Truncate(time.Second)
	session := model.Session{
		ID:        uuid.New(),
		SubjectID: accounts[0].ID,
		Roles:     accounts[0].Roles,
		AuthTime:  now,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	if err := s.store.Create(ctx, session); err != nil {
		s.logger.Error("Session service: failed to persist session",
			"subject_id", session.SubjectID,
			"error", err.Error())
		return "", model.Session{}, model.Unexpected(fmt.Errorf("failed to persist session: %w", err))
	}

	token, err := s.tokens.Generate(session)
	if err != nil {
		return "", model.Session{}, model.Unexpected(fmt.Errorf("failed to sign session token: %w", err))
	}

	s.logger.Info("Session service: session opened",
		"session_id", session.ID,
		"subject_id", session.SubjectID)

	return token, session, nil
}

// Authenticate resolves a session token into the authority it represents.
func (s *Sessions) Authenticate(ctx context.Context, token string) (*model.Authority, error) {
	sessionID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, model.NewAccessDenied("invalid session token")
	}

	session, err := s.store.GetByID(ctx, sessionID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.NewAccessDenied("unknown session")
	}
	if err != nil {
		s.logger.Error("Session service: failed to read session",
			"session_id", sessionID,
			"error", err.Error())
		return nil, model.Unexpected(fmt.Errorf("failed to read session: %w", err))
	}

	if session.RevokedAt != nil {
		return nil, model.NewAccessDenied("session revoked")
	}
	if s.now().After(session.ExpiresAt) {
		return nil, model.NewAccessDenied("session expired")
	}

	return session.Authority(), nil
}

// Logout revokes every session of the subject. Privileged callers may log out
// anyone; users only themselves.
func (s *Sessions) Logout(ctx context.Context, authority *model.Authority, subjectID *string) error {
	s.logger.Debug("Session service: logout",
		"subject_id", deref(subjectID))

	if err := checkAuthority(authority); err != nil {
		return err
	}
	if subjectID == nil {
		return model.NewIllegalArgument("subject id is required")
	}
	if !validate.UUID(subjectID) {
		return model.NewIllegalArgument("subject id is malformed")
	}

	onlyUser, err := gate(authority)
	if err != nil {
		return err
	}

	subject := uuid.MustParse(*subjectID)
	if onlyUser && uuid.MustParse(authority.ID) != subject {
		return model.NewAccessDenied("cannot log out another subject")
	}

	revoked, err := s.store.RevokeAllBySubject(ctx, subject)
	if err != nil {
		s.logger.Error("Session service: failed to revoke sessions",
			"subject_id", subject,
			"error", err.Error())
		return model.Unexpected(fmt.Errorf("failed to revoke sessions: %w", err))
	}

	s.logger.Info("Session service: sessions revoked",
		"subject_id", subject,
		"count", revoked)

	return nil
}
