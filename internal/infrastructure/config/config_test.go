package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_BACKEND", "MONGO_URI", "MONGO_DB", "SQLITE_PATH", "CACHE_ENABLED", "CACHE_TTL", "READ_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "uas_projects", cfg.MongoDB)
	assert.Equal(t, "data/uas_projects.db", cfg.SQLitePath)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_BACKEND", "MONGO")
	t.Setenv("MONGO_URI", "mongodb://db:27017/drones")
	t.Setenv("MONGO_DB", "")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "2")
	t.Setenv("READ_TIMEOUT", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.Equal(t, "drones", cfg.MongoDB)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 2*time.Second, cfg.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: "3000", StoreBackend: BackendPostgres}
	assert.Error(t, cfg.Validate(), "postgres without DSN")

	cfg.PostgresDSN = "host=localhost"
	assert.NoError(t, cfg.Validate())

	cfg.StoreBackend = "redis"
	assert.Error(t, cfg.Validate())

	cfg = &Config{StoreBackend: BackendSQLite, SQLitePath: ":memory:"}
	assert.Error(t, cfg.Validate(), "empty port")

	cfg = &Config{Port: "3000", StoreBackend: BackendSQLite, SQLitePath: ":memory:", CacheEnabled: true}
	assert.Error(t, cfg.Validate(), "cache without ttl")
	cfg.CacheTTL = time.Second
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseFromURI(t *testing.T) {
	assert.Equal(t, "uas", databaseFromURI("mongodb://localhost:27017/uas", "x"))
	assert.Equal(t, "x", databaseFromURI("mongodb://localhost:27017", "x"))
	assert.Equal(t, "x", databaseFromURI("mongodb://localhost:27017/", "x"))
	assert.Equal(t, "uas", databaseFromURI("mongodb+srv://u:p@cluster.example.net/uas?retryWrites=true", "x"))
}
