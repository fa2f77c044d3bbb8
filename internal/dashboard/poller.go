package dashboard

import (
	"context"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

const DefaultPollInterval = 5 * time.Second

// Poll calls fetch immediately and then every interval until ctx is done.
// A failed fetch is logged and the next tick tries again.
func Poll(ctx context.Context, interval time.Duration, fetch func(context.Context) error) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fetch(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			utils.Zlog.Warn("Poll failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
