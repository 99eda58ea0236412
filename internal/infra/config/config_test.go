package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.StorageMode)
	assert.Equal(t, "USD", cfg.BaseCurrency)
	assert.Equal(t, 3, cfg.ReserveRetryLimit)
	assert.Equal(t, 168*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 30*time.Minute, cfg.PendingPaymentGrace)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("BASE_CURRENCY", "DOLLARS")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("BASE_CURRENCY", "usd")
	t.Setenv("RESERVE_RETRY_LIMIT", "0")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadNormalizesCurrency(t *testing.T) {
	t.Setenv("BASE_CURRENCY", "eur")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.BaseCurrency)
}

func TestLoadRequiresMongoURIForMongoMode(t *testing.T) {
	t.Setenv("STORAGE_MODE", "mongo")
	_, err := Load()
	assert.Error(t, err)
}
