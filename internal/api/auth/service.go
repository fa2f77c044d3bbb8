package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

type Service struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
}

func NewService(users *repository.UserRepository, sessions *repository.SessionRepository) *Service {
	return &Service{users: users, sessions: sessions}
}

// Login finds or creates the user and opens a server session for them.
func (s *Service) Login(ctx context.Context, email string) (*types.LoginResponse, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, &types.ValidationError{Field: "email", Message: "a valid email address is required"}
	}

	user, err := s.users.FindOrCreate(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}
	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	utils.Zlog.Info("User logged in", zap.String("userId", user.ID))
	return &types.LoginResponse{User: *user, SessionID: sessionID, Message: "Login successful"}, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.End(ctx, sessionID)
}

// Me resolves a session to its user, or types.ErrNotFound.
func (s *Service) Me(ctx context.Context, sessionID string) (*types.User, error) {
	userID := s.sessions.UserID(ctx, sessionID)
	if userID == "" {
		return nil, fmt.Errorf("session: %w", types.ErrNotFound)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
	}
	return user, nil
}
