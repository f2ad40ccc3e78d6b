package planet

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 250 * time.Millisecond

// Watcher re-runs ingestion whenever the dataset file is written or replaced. The parent
// directory is watched so editors that swap files atomically are still noticed.
type Watcher struct {
	path     string
	service  *Service
	debounce time.Duration
	logger   *slog.Logger
}

func NewWatcher(path string, service *Service, logger *slog.Logger) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		service:  service,
		debounce: watchDebounce,
		logger:   logger.With("component", "planet_watcher", "path", path),
	}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create dataset watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch dataset directory: %w", err)
	}

	w.logger.Info("Watching planet dataset for changes")

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	var pendingSince time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pendingSince = time.Now()
			}

		case <-ticker.C:
			if pendingSince.IsZero() || time.Since(pendingSince) < w.debounce {
				continue
			}
			pendingSince = time.Time{}
			w.reload(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Dataset watcher error", "error", err)
		}
	}
}

// A failed reload keeps the previous catalog; the next write retries.
func (w *Watcher) reload(ctx context.Context) {
	w.logger.Info("Planet dataset changed, re-ingesting")

	count, err := w.service.IngestFile(ctx, w.path)
	if err != nil {
		w.logger.Error("Failed to re-ingest planet dataset", "error", err)
		return
	}
	w.logger.Info("Planet dataset re-ingested", "habitable", count)
}
