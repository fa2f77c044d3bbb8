// Package dashboard holds the client-side services behind the dashboard CLI.
// Every read or write tries the remote API first and falls back to the local
// store.
package dashboard

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Conversly/analytics-dashboard/internal/client"
	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

const SessionHeader = "X-Session-Id"

var errNoSession = errors.New("no session to resume")

type AuthService struct {
	api   *client.Client
	users *repository.UserRepository
}

func NewAuthService(api *client.Client, users *repository.UserRepository) *AuthService {
	return &AuthService{api: api, users: users}
}

// Login records the user as this client's current user.
func (s *AuthService) Login(ctx context.Context, email string) (*types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, &types.ValidationError{Field: "email", Message: "a valid email address is required"}
	}

	return client.WithFallback(ctx, "auth.login",
		func(ctx context.Context) (*types.User, error) {
			var resp types.LoginResponse
			if err := s.api.Post(ctx, "/api/auth/login", types.LoginRequest{Email: email}, &resp); err != nil {
				return nil, err
			}
			if err := s.users.SetCurrent(ctx, resp.User, resp.SessionID); err != nil {
				return nil, err
			}
			return &resp.User, nil
		},
		func(ctx context.Context) (*types.User, error) {
			user, err := s.users.FindOrCreate(ctx, email)
			if err != nil {
				return nil, err
			}
			// A local login has no server session; drop any stale one.
			if err := s.users.ClearCurrent(ctx); err != nil {
				return nil, err
			}
			if err := s.users.SetCurrent(ctx, *user, ""); err != nil {
				return nil, err
			}
			return user, nil
		})
}

// Logout ends the remote session when there is one. The local session is
// always cleared.
func (s *AuthService) Logout(ctx context.Context) error {
	if sessionID := s.users.SessionID(ctx); sessionID != "" {
		err := s.api.Post(ctx, "/api/auth/logout", types.LogoutRequest{SessionID: sessionID}, nil)
		if err != nil {
			utils.Zlog.Warn("Remote logout failed, clearing local session only", zap.Error(err))
		}
	}
	return s.users.ClearCurrent(ctx)
}

// CurrentUser returns nil when nobody is logged in.
func (s *AuthService) CurrentUser(ctx context.Context) (*types.User, error) {
	return client.WithFallback(ctx, "auth.me",
		func(ctx context.Context) (*types.User, error) {
			sessionID := s.users.SessionID(ctx)
			if sessionID == "" {
				return nil, errNoSession
			}
			var resp types.UserResponse
			if err := s.api.Get(ctx, "/api/auth/me", &resp, client.WithHeader(SessionHeader, sessionID)); err != nil {
				var reqErr *client.RequestError
				if errors.As(err, &reqErr) && reqErr.Status == http.StatusUnauthorized {
					// The server forgot the session; so do we.
					_ = s.users.ClearCurrent(ctx)
					return nil, nil
				}
				return nil, err
			}
			return &resp.User, nil
		},
		func(ctx context.Context) (*types.User, error) {
			return s.users.CurrentUser(ctx), nil
		})
}

// Users lists every locally known user.
func (s *AuthService) Users(ctx context.Context) ([]types.User, error) {
	return s.users.All(ctx)
}
