package client

import (
	"context"

	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

// WithFallback tries remote once. Any failure is logged and answered by
// local. A cancelled ctx is returned as is rather than masked by local data.
func WithFallback[T any](ctx context.Context, op string, remote, local func(context.Context) (T, error)) (T, error) {
	value, err := remote(ctx)
	if err == nil {
		return value, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		var zero T
		return zero, ctxErr
	}

	utils.Zlog.Warn("Remote call failed, using local data",
		zap.String("op", op),
		zap.Error(err))
	return local(ctx)
}
