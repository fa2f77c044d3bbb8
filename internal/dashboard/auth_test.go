package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/types"
	"go.uber.org/zap"
)

func TestAuthService_RemoteLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	remote, backend := newRemote(t)
	client := newLocal(t, time.Hour, nil)
	svc := NewAuthService(remote, client.users)

	user, err := svc.Login(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	sessionID := client.users.SessionID(ctx)
	if sessionID == "" {
		t.Fatal("remote login should store the session id")
	}
	if backend.sessions.UserID(ctx, sessionID) != user.ID {
		t.Fatal("server does not know the session")
	}

	me, err := svc.CurrentUser(ctx)
	if err != nil || me == nil || me.ID != user.ID {
		t.Fatalf("CurrentUser: %+v %v", me, err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if client.users.CurrentUser(ctx) != nil || client.users.SessionID(ctx) != "" {
		t.Error("local session not cleared")
	}
	if backend.sessions.UserID(ctx, sessionID) != "" {
		t.Error("server session not ended")
	}
}

func TestAuthService_LoginFallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	logs := observeWarnings(t)
	client := newLocal(t, time.Hour, nil)
	svc := NewAuthService(newBrokenRemote(t), client.users)

	first, err := svc.Login(ctx, "Grace@Example.com")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	second, err := svc.Login(ctx, "grace@example.com")
	if err != nil {
		t.Fatalf("Login again: %v", err)
	}
	if first.ID != second.ID {
		t.Error("local login should find the existing user by lower-cased email")
	}
	if logs.FilterField(zap.String("op", "auth.login")).Len() != 2 {
		t.Errorf("want a fallback warning per login, got %d", logs.Len())
	}

	// Offline: CurrentUser reads the local pointer.
	offline := NewAuthService(nil, client.users)
	me, err := offline.CurrentUser(ctx)
	if err != nil || me == nil || me.ID != first.ID {
		t.Fatalf("CurrentUser: %+v %v", me, err)
	}

	users, _ := offline.Users(ctx)
	if len(users) != 1 {
		t.Errorf("want 1 local user, got %d", len(users))
	}
}

func TestAuthService_LoginRejectsBadEmail(t *testing.T) {
	svc := NewAuthService(nil, newLocal(t, time.Hour, nil).users)
	_, err := svc.Login(context.Background(), "nobody")
	if !errors.Is(err, types.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestAuthService_LogoutOfflineClearsLocal(t *testing.T) {
	ctx := context.Background()
	client := newLocal(t, time.Hour, nil)
	if err := client.users.SetCurrent(ctx, types.User{ID: "u1"}, "sess_stale"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	if err := NewAuthService(nil, client.users).Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if client.users.CurrentUser(ctx) != nil || client.users.SessionID(ctx) != "" {
		t.Error("logout must clear the local session even when the API is down")
	}
}
