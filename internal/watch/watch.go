// Package watch turns spreadsheets dropped into a folder into import jobs.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/sheet"
)

//go:generate mockgen -source=watch.go -destination=watch_mock.go -package=watch

// SubmittedDir is the subfolder files are moved to once queued.
const SubmittedDir = "submitted"

type Submitter interface {
	Submit(ctx context.Context, name string, data []byte, opts importer.Options) (uuid.UUID, error)
}

// Watcher submits every supported file created in Dir once it has been
// quiet for Debounce, then moves it into SubmittedDir.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	submit   Submitter
}

func New(dir string, debounce time.Duration, s Submitter) *Watcher {
	return &Watcher{Dir: dir, Debounce: max(debounce, 50*time.Millisecond), submit: s}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Join(w.Dir, SubmittedDir), 0o755); err != nil {
		return fmt.Errorf("creating submitted dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.Dir, err)
	}

	slog.Info("watching drop folder", "dir", w.Dir, "debounce", w.Debounce)

	pending := make(map[string]time.Time)

	ticker := time.NewTicker(w.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}

			// Writes restart the quiet period of a file still being copied in.
			if (ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) && supported(ev.Name) {
				pending[ev.Name] = time.Now()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}

			slog.Error("drop folder watch error", "error", err)
		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.Debounce {
					continue
				}

				delete(pending, path)
				w.submitFile(ctx, path)
			}
		}
	}
}

func supported(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}

	_, err := sheet.DetectFormat(name)

	return err == nil
}

func (w *Watcher) submitFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read dropped file", "path", path, "error", err)
		return
	}

	name := filepath.Base(path)

	id, err := w.submit.Submit(ctx, name, data, importer.Options{})
	if err != nil {
		slog.Error("failed to submit dropped file", "path", path, "error", err)
		return
	}

	target := filepath.Join(w.Dir, SubmittedDir, id.String()+"-"+name)
	if err := os.Rename(path, target); err != nil {
		slog.Warn("failed to move submitted file", "path", path, "error", err)
	}

	slog.Info("drop folder import queued", "job_id", id, "file", name)
}
