package loaders

import (
	"context"
	"errors"
	"fmt"

	"github.com/Conversly/analytics-dashboard/internal/utils"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// PostgresClient stores values as JSONB rows of the dashboard_kv table.
type PostgresClient struct {
	pool *pgxpool.Pool
}

func NewPostgresClient(ctx context.Context, dsn string) (*PostgresClient, error) {
	if dsn == "" {
		return nil, errors.New("postgres DSN is required")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres DSN: %w", err)
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	client := &PostgresClient{pool: pool}
	if err := client.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	utils.Zlog.Info("Connected to PostgreSQL store",
		zap.Int32("maxConns", cfg.MaxConns))
	return client, nil
}

func (c *PostgresClient) migrate(ctx context.Context) error {
	_, err := c.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS dashboard_kv (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate postgres store: %w", err)
	}
	return nil
}

func (c *PostgresClient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := c.pool.QueryRow(ctx, `SELECT value::text FROM dashboard_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (c *PostgresClient) Set(ctx context.Context, key string, value []byte) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO dashboard_kv (key, value, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, string(value))
	return err
}

func (c *PostgresClient) Remove(ctx context.Context, key string) error {
	_, err := c.pool.Exec(ctx, `DELETE FROM dashboard_kv WHERE key = $1`, key)
	return err
}

func (c *PostgresClient) Close() error {
	c.pool.Close()
	return nil
}
