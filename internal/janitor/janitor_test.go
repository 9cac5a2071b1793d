package janitor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/haulage/internal/janitor"
)

func TestJanitor_RunOnce(t *testing.T) {
	var calls []string

	tasks := []janitor.Task{
		{Name: "progress", Purge: func(_ context.Context, _ time.Time) (int, error) {
			calls = append(calls, "progress")
			return 0, errors.New("connection reset")
		}},
		{Name: "uploads", Purge: func(_ context.Context, _ time.Time) (int, error) {
			calls = append(calls, "uploads")
			return 2, nil
		}},
	}

	j, err := janitor.New("@every 1h", "UTC", tasks...)
	require.NoError(t, err)

	j.RunOnce(context.Background())

	assert.Equal(t, []string{"progress", "uploads"}, calls)
}

func TestOlderThan(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	var cutoff time.Time

	purge := janitor.OlderThan(24*time.Hour, func(_ context.Context, before time.Time) (int, error) {
		cutoff = before
		return 1, nil
	})

	n, err := purge(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, now.Add(-24*time.Hour), cutoff)
}

func TestNew(t *testing.T) {
	t.Run("rejects a bad schedule", func(t *testing.T) {
		_, err := janitor.New("every so often", "UTC")
		assert.Error(t, err)
	})

	t.Run("unknown zone falls back to UTC", func(t *testing.T) {
		j, err := janitor.New("*/5 * * * *", "Mars/Olympus_Mons")
		require.NoError(t, err)

		j.Start()
		j.Stop()
	})
}
