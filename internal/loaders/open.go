package loaders

import (
	"context"
	"fmt"

	"github.com/Conversly/analytics-dashboard/internal/config"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

// Open builds the Store selected by cfg.Driver. Callers own Close.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	utils.Zlog.Info("Opening local store", zap.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite, "":
		return NewSQLiteStore(cfg.SQLitePath)
	case config.DriverPostgres:
		return NewPostgresClient(ctx, cfg.DatabaseURL)
	case config.DriverNeo4j:
		return NewNeo4jStore(ctx, Neo4jOptions{
			URI:      cfg.Neo4jURI,
			Database: cfg.Neo4jDatabase,
			Username: cfg.Neo4jUsername,
			Password: cfg.Neo4jPassword,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
