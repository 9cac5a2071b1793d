package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/watch"
)

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	id := uuid.New()

	submitter := watch.NewMockSubmitter(gomock.NewController(t))

	submitted := make(chan string, 1)
	submitter.EXPECT().Submit(gomock.Any(), "ledger.csv", []byte("Account,Type\n"), importer.Options{}).DoAndReturn(
		func(_ context.Context, name string, _ []byte, _ importer.Options) (uuid.UUID, error) {
			submitted <- name
			return id, nil
		})

	ctx, cancel := context.WithCancel(context.Background())

	w := watch.New(dir, 50*time.Millisecond, submitter)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before files appear.
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, watch.SubmittedDir))
		return err == nil
	}, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.pdf"), []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledger.csv"), []byte("Account,Type\n"), 0o644))

	select {
	case name := <-submitted:
		assert.Equal(t, "ledger.csv", name)
	case <-time.After(5 * time.Second):
		t.Fatal("dropped file was not submitted")
	}

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, watch.SubmittedDir, id.String()+"-ledger.csv"))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	_, err := os.Stat(filepath.Join(dir, "notes.pdf"))
	assert.NoError(t, err)
}
