package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoll_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	done := make(chan error, 1)
	go func() {
		done <- Poll(ctx, 5*time.Millisecond, func(context.Context) error {
			if calls.Add(1) == 3 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Poll did not stop after cancel")
	}
	if calls.Load() != 3 {
		t.Errorf("want 3 fetches, got %d", calls.Load())
	}
}

func TestPoll_KeepsGoingAfterErrors(t *testing.T) {
	logs := observeWarnings(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls atomic.Int32

	err := Poll(ctx, time.Millisecond, func(context.Context) error {
		if calls.Add(1) >= 3 {
			cancel()
			return nil
		}
		return errors.New("remote down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if logs.Len() != 2 {
		t.Errorf("want 2 logged failures, got %d", logs.Len())
	}
}
