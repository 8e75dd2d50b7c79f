package memory

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps sessions in process memory. Sessions are lost on restart.
type SessionStore struct {
	items *cache.Cache
	now   func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{items: cache.New(cache.NoExpiration, 10*time.Minute), now: time.Now}
}

func (s *SessionStore) CreateSession(ctx context.Context, session domain.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	s.items.Set(session.ID, session, ttl)
	return nil
}

func (s *SessionStore) FindActiveSession(ctx context.Context, id string) (*domain.Session, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	session := v.(domain.Session)
	if !session.Active(s.now()) {
		return nil, ports.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) DeactivateSession(ctx context.Context, id string) error {
	s.items.Delete(id)
	return nil
}
