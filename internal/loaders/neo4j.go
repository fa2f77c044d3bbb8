package loaders

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jOptions configures the graph-backed store.
type Neo4jOptions struct {
	URI      string
	Database string
	Username string
	Password string
}

// Neo4jStore keeps each key as a (:DashboardEntry {key, value}) node.
// It speaks Bolt, so it also works against Neptune's openCypher endpoint.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

const (
	neo4jGetCypher    = `MATCH (e:DashboardEntry {key: $key}) RETURN e.value AS value`
	neo4jSetCypher    = `MERGE (e:DashboardEntry {key: $key}) SET e.value = $value, e.updatedAt = datetime()`
	neo4jRemoveCypher = `MATCH (e:DashboardEntry {key: $key}) DELETE e`
)

func NewNeo4jStore(ctx context.Context, opts Neo4jOptions) (*Neo4jStore, error) {
	if opts.URI == "" {
		return nil, errors.New("neo4j URI is required")
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	return &Neo4jStore{driver: driver, database: opts.Database}, nil
}

func (s *Neo4jStore) run(ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   mode,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return res.Collect(ctx)
}

func (s *Neo4jStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	records, err := s.run(ctx, neo4j.AccessModeRead, neo4jGetCypher, map[string]any{"key": key})
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	raw, _ := records[0].Get("value")
	value, ok := raw.(string)
	if !ok {
		return nil, false, fmt.Errorf("unexpected value type %T for key %s", raw, key)
	}
	return []byte(value), true, nil
}

func (s *Neo4jStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.run(ctx, neo4j.AccessModeWrite, neo4jSetCypher, map[string]any{
		"key":   key,
		"value": string(value),
	})
	return err
}

func (s *Neo4jStore) Remove(ctx context.Context, key string) error {
	_, err := s.run(ctx, neo4j.AccessModeWrite, neo4jRemoveCypher, map[string]any{"key": key})
	return err
}

func (s *Neo4jStore) Close() error {
	return s.driver.Close(context.Background())
}
