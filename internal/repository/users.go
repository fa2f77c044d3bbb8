package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/loaders"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
)

// UserRepository keeps known users and the single current-user/session pointer
// of this client.
type UserRepository struct {
	store loaders.Store
	mu    sync.Mutex
}

func NewUserRepository(store loaders.Store) *UserRepository {
	return &UserRepository{store: store}
}

// FindOrCreate looks the user up by case-insensitive email and creates one if missing.
func (r *UserRepository) FindOrCreate(ctx context.Context, email string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := loaders.LoadJSON(ctx, r.store, loaders.KeyUsers, []types.User{})
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.ToLower(u.Email) == email {
			found := u
			return &found, nil
		}
	}

	user := types.User{
		ID:        utils.NewID(""),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := loaders.SetJSON(ctx, r.store, loaders.KeyUsers, append(users, user)); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := loaders.LoadJSON(ctx, r.store, loaders.KeyUsers, []types.User{})
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) All(ctx context.Context) ([]types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return loaders.LoadJSON(ctx, r.store, loaders.KeyUsers, []types.User{})
}

// CurrentUser returns the recorded current user, or nil.
func (r *UserRepository) CurrentUser(ctx context.Context) *types.User {
	return loaders.GetJSON[*types.User](ctx, r.store, loaders.KeyCurrentUser, nil)
}

// SessionID returns the recorded session id, or "".
func (r *UserRepository) SessionID(ctx context.Context) string {
	return loaders.GetJSON(ctx, r.store, loaders.KeySessionID, "")
}

// SetCurrent records user (and sessionID when not empty) as this client's session.
func (r *UserRepository) SetCurrent(ctx context.Context, user types.User, sessionID string) error {
	if err := loaders.SetJSON(ctx, r.store, loaders.KeyCurrentUser, user); err != nil {
		return err
	}
	if sessionID == "" {
		return nil
	}
	return loaders.SetJSON(ctx, r.store, loaders.KeySessionID, sessionID)
}

// ClearCurrent forgets the current user and session id.
func (r *UserRepository) ClearCurrent(ctx context.Context) error {
	if err := loaders.RemoveKey(ctx, r.store, loaders.KeyCurrentUser); err != nil {
		return err
	}
	return loaders.RemoveKey(ctx, r.store, loaders.KeySessionID)
}
