package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/identity-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]model.Session
	now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[uuid.UUID]model.Session),
		now:      time.Now,
	}
}

func (r *SessionRepository) Create(_ context.Context, session model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; ok {
		return model.NewConflict("session %s already exists", session.ID)
	}
	r.sessions[session.ID] = session

	return nil
}

func (r *SessionRepository) GetByID(_ context.Context, id uuid.UUID) (model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return model.Session{}, model.ErrNotFound
	}

	return session, nil
}

func (r *SessionRepository) RevokeAllBySubject(_ context.Context, subjectID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var revoked int64
	for id, session := range r.sessions {
		if session.SubjectID != subjectID || session.RevokedAt != nil {
			continue
		}
		session.RevokedAt = &now
		r.sessions[id] = session
		revoked++
	}

	return revoked, nil
}
