package loaders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

// Storage namespaces. Each holds one JSON document.
const (
	KeyUsers          = "app_users"
	KeyTransactions   = "app_transactions"
	KeyChartData      = "app_chart_data"
	KeyCallAnalytics  = "app_call_analytics"
	KeyProcessedKeys  = "app_processed_idempotency_keys"
	KeyCurrentUser    = "app_current_user"
	KeySessionID      = "sessionId"
	KeyServerSessions = "app_sessions"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store is closed")

// Store is a string-keyed byte store with an explicit lifecycle.
// Get reports found=false for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// LoadJSON decodes the value under key into a T. Absent or corrupted values
// yield def; a failed read is returned so callers never write back over data
// they could not see.
func LoadJSON[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return def, fmt.Errorf("read %s: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return def, nil
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		utils.Zlog.Warn("Corrupted value in store, using default",
			zap.String("key", key),
			zap.Error(err))
		return def, nil
	}
	return out, nil
}

// GetJSON is LoadJSON for display-only reads: a failed read is logged and
// yields def. Read-modify-write paths must use LoadJSON.
func GetJSON[T any](ctx context.Context, s Store, key string, def T) T {
	out, err := LoadJSON(ctx, s, key, def)
	if err != nil {
		utils.Zlog.Warn("Failed to read from store, using default",
			zap.String("key", key),
			zap.Error(err))
		return def
	}
	return out
}

// SetJSON encodes value and stores it under key.
func SetJSON[T any](ctx context.Context, s Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		utils.Zlog.Error("Failed to save to store",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// RemoveKey deletes key; failures are logged and returned.
func RemoveKey(ctx context.Context, s Store, key string) error {
	if err := s.Remove(ctx, key); err != nil {
		utils.Zlog.Error("Failed to remove from store",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
