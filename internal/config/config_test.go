package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("POSTGRES_USER", "postgres")
	t.Setenv("POSTGRES_DB", "freight")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.HTTPPort)
		assert.Equal(t, 5432, cfg.DBPort)
		assert.Empty(t, cfg.KafkaBrokers)
		assert.Equal(t, "booking_events", cfg.KafkaBookingTopic)
		assert.Equal(t, 3*time.Second, cfg.PushTimeout)
		assert.Equal(t, time.Minute, cfg.ListingCacheTTL)
		assert.Equal(t, 500*time.Millisecond, cfg.AuditFlushTimeout)
		assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=freight sslmode=disable", cfg.DSN())
	})

	t.Run("overrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
		t.Setenv("PUSH_TIMEOUT", "750ms")
		t.Setenv("LISTING_CACHE_TTL", "15s")
		t.Setenv("OUTBOX_MAX_ATTEMPTS", "5")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, 750*time.Millisecond, cfg.PushTimeout)
		assert.Equal(t, 15*time.Second, cfg.ListingCacheTTL)
		assert.Equal(t, 5, cfg.OutboxMaxAttempts)
	})

	t.Run("missing required", func(t *testing.T) {
		t.Setenv("POSTGRES_USER", "")
		t.Setenv("POSTGRES_DB", "freight")

		_, err := Load()
		assert.ErrorContains(t, err, "POSTGRES_USER")
	})

	t.Run("bad number", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_PORT", "five")

		_, err := Load()
		assert.ErrorContains(t, err, "invalid DB_PORT")
	})

	t.Run("bad duration", func(t *testing.T) {
		setRequired(t)
		t.Setenv("OUTBOX_POLL_INTERVAL", "soon")

		_, err := Load()
		assert.ErrorContains(t, err, "invalid OUTBOX_POLL_INTERVAL")
	})
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FREIGHT_TEST_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FREIGHT_TEST_KEY") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("FREIGHT_TEST_KEY"))

	assert.Error(t, LoadEnv(filepath.Join(dir, "missing.env")))
}
