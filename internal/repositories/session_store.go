package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/stresszero/quizbot-service/internal/cache"
	"github.com/stresszero/quizbot-service/internal/models"
)

// ErrSessionNotFound is returned when no state exists for a session ID
var ErrSessionNotFound = errors.New("session state not found")

const sessionKeyPrefix = "quizbot:session:"

// SessionStore persists one SessionState per session ID. State is
// session-scoped: entries expire with the session TTL and there is no
// cross-session sharing.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.SessionState, error)
	Save(ctx context.Context, state *models.SessionState) error
	Delete(ctx context.Context, id string) error
}

type cacheSessionStore struct {
	cache cache.CacheService
	ttl   time.Duration
}

// NewSessionStore builds a store on top of the shared cache service.
// A non-positive ttl falls back to 24 hours.
func NewSessionStore(cacheService cache.CacheService, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &cacheSessionStore{
		cache: cacheService,
		ttl:   ttl,
	}
}

func (s *cacheSessionStore) Get(ctx context.Context, id string) (*models.SessionState, error) {
	var state models.SessionState
	err := s.cache.Get(ctx, sessionKeyPrefix+id, &state)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *cacheSessionStore) Save(ctx context.Context, state *models.SessionState) error {
	state.UpdatedAt = time.Now()
	return s.cache.Set(ctx, sessionKeyPrefix+state.ID, state, s.ttl)
}

func (s *cacheSessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+id)
}
