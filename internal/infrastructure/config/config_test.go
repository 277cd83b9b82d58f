package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"AIRTABLE_API_KEY":  "key",
		"AIRTABLE_BASE_ID":  "app1",
		"AIRTABLE_TABLE_ID": "tbl1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/", cfg.RedirectURL)
	assert.Equal(t, BackendAirtable, cfg.Backend)
	assert.Equal(t, "app1", cfg.Airtable.BaseID)
	assert.Equal(t, "user_directory", cfg.Mongo.Database)
	assert.Empty(t, cfg.Redis.Addr)
	assert.True(t, cfg.Pretty())
}

func TestLoadFrom_AirtableRequiresIdentifiers(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoadFrom_MemoryBackend(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_BACKEND": "memory",
		"ENV":           "production",
		"REDIS_ADDR":    "localhost:6379",
	}))
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.Pretty())
}

func TestLoadFrom_UnknownBackend(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"STORE_BACKEND": "sqlite"}))
	assert.Error(t, err)
}
