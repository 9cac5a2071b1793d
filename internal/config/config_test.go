package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/haulage/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, 100, cfg.Import.BatchSize)
		assert.Equal(t, time.Hour, cfg.Import.ProgressTTL)
		assert.Equal(t, 7, cfg.Import.HeaderSkipRows)
	})

	t.Run("connection string", func(t *testing.T) {
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_PORT", "6543")
		t.Setenv("DB_USER", "haul")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("DB_NAME", "ledger")
		t.Setenv("DB_SSLMODE", "require")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "postgres://haul:secret@db:6543/ledger?sslmode=require", cfg.ConnectionString())
	})

	t.Run("kafka brokers from env", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.True(t, cfg.UsesKafka())
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("rejects non-positive batch size", func(t *testing.T) {
		t.Setenv("IMPORT_BATCH_SIZE", "0")

		_, err := config.Load()
		assert.Error(t, err)
	})
}
