package documents

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher ingests documents dropped into a directory. Editors and
// copies emit several write events per file, so events for the same
// path are debounced before ingestion runs.
type Watcher struct {
	proc     *Processor
	debounce time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher creates a directory watcher over the given processor
func NewWatcher(proc *Processor, debounce time.Duration, log *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		proc:     proc,
		debounce: debounce,
		log:      log,
		timers:   make(map[string]*time.Timer),
	}
}

// Watch blocks ingesting supported files created or written under dir
// until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.log.Info("watching directory", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			ext := strings.ToLower(filepath.Ext(event.Name))
			if _, supported := w.proc.parsers[ext]; !supported {
				continue
			}
			w.schedule(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		res, err := w.proc.IngestFile(ctx, path)
		if err != nil {
			if errors.Is(err, ErrEmptyDocument) || errors.Is(err, ErrUnsupportedFormat) {
				w.log.Warn("skipping file", zap.String("path", path), zap.Error(err))
				return
			}
			w.log.Error("failed to ingest file", zap.String("path", path), zap.Error(err))
			return
		}
		w.log.Info("ingested watched file",
			zap.String("path", path),
			zap.String("document_id", res.DocumentID.String()),
			zap.Int("chunks", res.TotalChunks))
	})
}
