package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/ecogrow")
	t.Setenv("JWT_SECRET", "secret")
}

func TestParseDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, SettlementSequential, cfg.OrderSettlementMode)
	assert.Equal(t, int64(10<<20), cfg.ScanMaxImageBytes)
	assert.False(t, cfg.RedisEnabled())
}

func TestParseMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Parse()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestParseSettlementMode(t *testing.T) {
	setRequired(t)

	t.Setenv("ORDER_SETTLEMENT_MODE", " Atomic ")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, SettlementAtomic, cfg.OrderSettlementMode)

	t.Setenv("ORDER_SETTLEMENT_MODE", "saga")
	_, err = Parse()
	assert.ErrorContains(t, err, "ORDER_SETTLEMENT_MODE")
}

func TestParseRedis(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 2, cfg.RedisDB)
}
