package repository

import (
	"context"
	"sync"

	"github.com/Conversly/analytics-dashboard/internal/loaders"
	"github.com/Conversly/analytics-dashboard/internal/utils"
)

// SessionRepository maps session ids to user ids for the API stub.
type SessionRepository struct {
	store loaders.Store
	mu    sync.Mutex
}

func NewSessionRepository(store loaders.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Create(ctx context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := loaders.LoadJSON(ctx, r.store, loaders.KeyServerSessions, map[string]string{})
	if err != nil {
		return "", err
	}
	if sessions == nil {
		sessions = map[string]string{}
	}
	sessionID := utils.NewID("sess_")
	sessions[sessionID] = userID
	if err := loaders.SetJSON(ctx, r.store, loaders.KeyServerSessions, sessions); err != nil {
		return "", err
	}
	return sessionID, nil
}

// UserID returns the user bound to sessionID, or "".
func (r *SessionRepository) UserID(ctx context.Context, sessionID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return loaders.GetJSON(ctx, r.store, loaders.KeyServerSessions, map[string]string{})[sessionID]
}

// End removes sessionID; unknown ids are ignored.
func (r *SessionRepository) End(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := loaders.LoadJSON(ctx, r.store, loaders.KeyServerSessions, map[string]string{})
	if err != nil {
		return err
	}
	if _, ok := sessions[sessionID]; !ok {
		return nil
	}
	delete(sessions, sessionID)
	return loaders.SetJSON(ctx, r.store, loaders.KeyServerSessions, sessions)
}
