package postgres

import (
	"fmt"
	"testing"
	"time"

	"tutor-settlement/config"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDBConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:            "db.internal",
		Port:            5433,
		User:            "settle",
		Password:        "secret",
		DBName:          "tutor_settlement",
		SSLMode:         "disable",
		MaxConns:        12,
		MinConns:        3,
		ConnMaxLifetime: 15 * time.Minute,
	}
}

func TestPoolConfig_AppliesLimits(t *testing.T) {
	poolCfg, err := poolConfig(testDBConfig())
	require.NoError(t, err)

	assert.Equal(t, "db.internal", poolCfg.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolCfg.ConnConfig.Port)
	assert.Equal(t, "tutor_settlement", poolCfg.ConnConfig.Database)
	assert.Equal(t, int32(12), poolCfg.MaxConns)
	assert.Equal(t, int32(3), poolCfg.MinConns)
	assert.Equal(t, 15*time.Minute, poolCfg.MaxConnLifetime)
	assert.Equal(t, "tutor-settlement", poolCfg.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_IgnoresInvalidMinConns(t *testing.T) {
	cfg := testDBConfig()
	cfg.MinConns = 50

	poolCfg, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.LessOrEqual(t, poolCfg.MinConns, poolCfg.MaxConns)
}

func TestPoolConfig_ZeroValuesKeepDriverDefaults(t *testing.T) {
	cfg := testDBConfig()
	cfg.MaxConns, cfg.MinConns, cfg.ConnMaxLifetime = 0, 0, 0

	poolCfg, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Positive(t, poolCfg.MaxConns)
	assert.Positive(t, poolCfg.MaxConnLifetime)
}

func TestPoolConfig_BadSSLMode(t *testing.T) {
	cfg := testDBConfig()
	cfg.SSLMode = "sometimes"

	_, err := poolConfig(cfg)
	assert.Error(t, err)
}

func TestNotFound(t *testing.T) {
	assert.True(t, notFound(pgx.ErrNoRows))
	assert.True(t, notFound(fmt.Errorf("get workflow: %w", pgx.ErrNoRows)))
	assert.False(t, notFound(assert.AnError))
}

// NewPool needs a running PostgreSQL and is exercised outside unit tests.
