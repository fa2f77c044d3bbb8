package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/loaders"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthProbe interface {
	Probe(ctx context.Context) error
}

// StoreProbe checks that the local store still answers reads.
type StoreProbe struct {
	Store loaders.Store
}

func (p StoreProbe) Probe(ctx context.Context) error {
	if p.Store == nil {
		return nil
	}
	_, _, err := p.Store.Get(ctx, loaders.KeyProcessedKeys)
	return err
}

func HealthHandler(probe HealthProbe) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := probe.Probe(ctx); err != nil {
			utils.Zlog.Error("Health probe failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
