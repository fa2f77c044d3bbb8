package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNeo4j    = "neo4j"
)

type Config struct {
	Port            string
	APIBaseURL      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	LogLevel        string
	Environment     string

	Store StoreConfig

	ProcessingDelay         time.Duration
	SettlementSuccessRate   float64
	WorkerCount             int
	QueueCapacity           int
	PollInterval            time.Duration
	WebhookStrictValidation bool
}

// StoreConfig selects and configures the local key-value backend.
type StoreConfig struct {
	Driver        string
	SQLitePath    string
	DatabaseURL   string
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	Neo4jDatabase string
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("API_BASE_URL", "http://localhost:3001")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("STORE_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "~/.analytics-dashboard/store.db")
	v.SetDefault("PROCESSING_DELAY", "30s")
	v.SetDefault("SETTLEMENT_SUCCESS_RATE", 0.9)
	v.SetDefault("WORKER_COUNT", 4)
	v.SetDefault("QUEUE_CAPACITY", 100)
	v.SetDefault("POLL_INTERVAL", "5s")
	v.SetDefault("WEBHOOK_STRICT_VALIDATION", false)
}

var keys = []string{
	"PORT", "API_BASE_URL", "REQUEST_TIMEOUT", "SHUTDOWN_TIMEOUT", "ALLOWED_ORIGINS",
	"LOG_LEVEL", "ENVIRONMENT", "STORE_DRIVER", "SQLITE_PATH", "DATABASE_URL",
	"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD", "NEO4J_DATABASE",
	"PROCESSING_DELAY", "SETTLEMENT_SUCCESS_RATE", "WORKER_COUNT", "QUEUE_CAPACITY",
	"POLL_INTERVAL", "WEBHOOK_STRICT_VALIDATION",
}

// LoadConfig reads .env (if present), an optional YAML file named by
// DASHBOARD_CONFIG, and the environment. Environment variables win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path := os.Getenv("DASHBOARD_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:            v.GetString("PORT"),
		APIBaseURL:      strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		RequestTimeout:  v.GetDuration("REQUEST_TIMEOUT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		AllowedOrigins:  splitCSV(v.GetString("ALLOWED_ORIGINS")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		Environment:     v.GetString("ENVIRONMENT"),
		Store: StoreConfig{
			Driver:        strings.ToLower(v.GetString("STORE_DRIVER")),
			SQLitePath:    v.GetString("SQLITE_PATH"),
			DatabaseURL:   v.GetString("DATABASE_URL"),
			Neo4jURI:      v.GetString("NEO4J_URI"),
			Neo4jUsername: v.GetString("NEO4J_USERNAME"),
			Neo4jPassword: v.GetString("NEO4J_PASSWORD"),
			Neo4jDatabase: v.GetString("NEO4J_DATABASE"),
		},
		ProcessingDelay:         v.GetDuration("PROCESSING_DELAY"),
		SettlementSuccessRate:   v.GetFloat64("SETTLEMENT_SUCCESS_RATE"),
		WorkerCount:             v.GetInt("WORKER_COUNT"),
		QueueCapacity:           v.GetInt("QUEUE_CAPACITY"),
		PollInterval:            v.GetDuration("POLL_INTERVAL"),
		WebhookStrictValidation: v.GetBool("WEBHOOK_STRICT_VALIDATION"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case DriverNeo4j:
		if c.Store.Neo4jURI == "" {
			return errors.New("NEO4J_URI is required for the neo4j store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.SettlementSuccessRate < 0 || c.SettlementSuccessRate > 1 {
		return fmt.Errorf("SETTLEMENT_SUCCESS_RATE must be within [0,1], got %v", c.SettlementSuccessRate)
	}
	if c.ProcessingDelay <= 0 {
		return errors.New("PROCESSING_DELAY must be positive")
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 1
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 100
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	return nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
