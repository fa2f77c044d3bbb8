package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestClient_DoDecodesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transactions" || r.URL.Query().Get("userId") != "u1" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if r.Header.Get("X-Session-Id") != "sess_1" {
			t.Errorf("missing session header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transactions":[{"id":"txn_1","amount":12.5,"status":"pending"}]}`))
	}))
	defer server.Close()

	c := New(server.URL+"/", time.Second)
	var out types.TransactionsResponse
	err := c.Get(context.Background(), "/api/transactions", &out, WithQuery("userId", "u1"), WithHeader("X-Session-Id", "sess_1"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out.Transactions) != 1 || out.Transactions[0].ID != "txn_1" {
		t.Fatalf("unexpected body %+v", out)
	}
	if out.Transactions[0].Amount.String() != "12.5" {
		t.Errorf("amount: got %s", out.Transactions[0].Amount)
	}
}

func TestClient_DoSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected %s with %q", r.Method, r.Header.Get("Content-Type"))
		}
		var body types.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email != "a@b.test" {
			t.Errorf("body: %+v %v", body, err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := New(server.URL, 0).Post(context.Background(), "/api/auth/login", types.LoginRequest{Email: "a@b.test"}, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		message  string
		notFound bool
	}{
		{name: "error field", status: http.StatusBadRequest, body: `{"error":"Bad Request","message":"details"}`, message: "Bad Request"},
		{name: "message field", status: http.StatusInternalServerError, body: `{"message":"boom"}`, message: "boom"},
		{name: "no body", status: http.StatusBadGateway, body: ``, message: "HTTP 502"},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"Not Found"}`, message: "Not Found", notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := New(server.URL, time.Second).Get(context.Background(), "/x", nil)
			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("want RequestError, got %v", err)
			}
			if reqErr.Status != tt.status || reqErr.Message != tt.message {
				t.Errorf("got status %d message %q", reqErr.Status, reqErr.Message)
			}
			if errors.Is(err, types.ErrNotFound) != tt.notFound {
				t.Errorf("ErrNotFound match: want %v", tt.notFound)
			}
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := New(url, time.Second).Get(context.Background(), "/health", nil)
	if !errors.Is(err, types.ErrNetwork) {
		t.Fatalf("want ErrNetwork, got %v", err)
	}
}

func TestClient_NilIsOffline(t *testing.T) {
	c := New("  ", time.Second)
	if c != nil {
		t.Fatal("empty base url should disable the client")
	}
	if err := c.Get(context.Background(), "/health", nil); !errors.Is(err, ErrOffline) || !errors.Is(err, types.ErrNetwork) {
		t.Fatalf("want ErrOffline, got %v", err)
	}
}

func TestWithFallback(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	t.Cleanup(utils.SetLogger(zap.New(core)))

	remoteOK := func(context.Context) (string, error) { return "remote", nil }
	remoteDown := func(context.Context) (string, error) { return "", types.ErrNetwork }
	local := func(context.Context) (string, error) { return "local", nil }

	got, err := WithFallback(context.Background(), "op.ok", remoteOK, local)
	if err != nil || got != "remote" {
		t.Fatalf("remote success: got %q %v", got, err)
	}
	if logs.Len() != 0 {
		t.Fatalf("success should not log, got %d entries", logs.Len())
	}

	got, err = WithFallback(context.Background(), "op.down", remoteDown, local)
	if err != nil || got != "local" {
		t.Fatalf("fallback: got %q %v", got, err)
	}
	entries := logs.FilterField(zap.String("op", "op.down")).All()
	if len(entries) != 1 {
		t.Fatalf("want one warning for op.down, got %d", len(entries))
	}
}

func TestWithFallback_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	localCalled := false
	_, err := WithFallback(ctx, "op",
		func(ctx context.Context) (int, error) { return 0, ctx.Err() },
		func(context.Context) (int, error) { localCalled = true; return 1, nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if localCalled {
		t.Error("local ran for a cancelled request")
	}
}
