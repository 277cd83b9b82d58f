package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendAirtable = "airtable"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

type Config struct {
	Port        string `env:"PORT,          default=8080"`
	Env         string `env:"ENV,           default=development"`
	LogLevel    string `env:"LOG_LEVEL,     default=info"`
	RedirectURL string `env:"REDIRECT_URL,  default=/"`
	Backend     string `env:"STORE_BACKEND, default=airtable"`

	Airtable AirtableConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type AirtableConfig struct {
	APIKey  string `env:"AIRTABLE_API_KEY"`
	BaseID  string `env:"AIRTABLE_BASE_ID"`
	TableID string `env:"AIRTABLE_TABLE_ID"`
	BaseURL string `env:"AIRTABLE_BASE_URL"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_directory"`
}

// RedisConfig is optional. With an empty Addr sign-ups are serialised in
// process only.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Pretty reports whether logs should be human readable.
func (c *Config) Pretty() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendAirtable:
		if c.Airtable.APIKey == "" || c.Airtable.BaseID == "" || c.Airtable.TableID == "" {
			return fmt.Errorf("config: AIRTABLE_API_KEY, AIRTABLE_BASE_ID and AIRTABLE_TABLE_ID are required for the airtable backend")
		}
	case BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Backend)
	}
	return nil
}
