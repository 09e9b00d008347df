package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "SQLite")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("REDIS_ENABLED", "yes")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SNOWFLAKE_NODE", "7")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, int64(7), cfg.NodeID)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "three")
	t.Setenv("DATABASE_METRICS_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.DBMetricsEnabled)
}
