package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

type implWatcher struct {
	cfg     Config
	handler EventHandler
	logger  logger.Logger
	watcher *fsnotify.Watcher
	sem     *semaphore.Weighted
	wg      sync.WaitGroup

	mu       sync.Mutex
	timers   map[string]*time.Timer
	inflight map[string]bool

	ready    chan string
	quit     chan struct{}
	quitOnce sync.Once
}

// Start watches for transcript files and dispatches each once it has been
// quiet for StableTime.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.cfg.MaxConcurrent, w.cfg.Root)
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.stopTimers()
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case path := <-w.ready:
			w.dispatch(ctx, path)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

func (w *implWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	if info.IsDir() {
		if !event.Has(fsnotify.Create) {
			return
		}
		// Files may land before the new directory is watched.
		if err := w.addTree(event.Name); err != nil {
			w.logger.Warn(ctx, "Failed to watch %s: %v", event.Name, err)
		}
		filepath.WalkDir(event.Name, func(path string, d fs.DirEntry, err error) error {
			if err == nil && !d.IsDir() && w.matches(path) {
				w.schedule(path)
			}
			return nil
		})
		return
	}

	if w.matches(event.Name) {
		w.logger.Debug(ctx, "Transcript activity: %s", event.Name)
		w.schedule(event.Name)
	}
}

// schedule (re)arms the stability timer for path.
func (w *implWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.cfg.StableTime)
		return
	}
	w.timers[path] = time.AfterFunc(w.cfg.StableTime, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-w.quit:
		}
	})
}

// dispatch runs the handler for path unless it is already queued or running.
func (w *implWatcher) dispatch(ctx context.Context, path string) {
	if !w.largeEnough(path) {
		w.logger.Debug(ctx, "Ignoring small or missing file: %s", path)
		return
	}

	w.mu.Lock()
	if w.inflight[path] {
		w.mu.Unlock()
		return
	}
	w.inflight[path] = true
	w.mu.Unlock()

	w.logger.Info(ctx, "New transcript detected: %s", path)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			delete(w.inflight, path)
			w.mu.Unlock()
		}()

		if err := w.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer w.sem.Release(1)

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
}

func (w *implWatcher) Scan(ctx context.Context, maxAge time.Duration) (int, error) {
	var paths []string
	cutoff := time.Now().Add(-maxAge)

	err := filepath.WalkDir(w.cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !w.matches(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() < w.cfg.MinSize {
			return nil
		}
		if maxAge > 0 && info.ModTime().Before(cutoff) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", w.cfg.Root, err)
	}

	w.logger.Info(ctx, "Backlog scan found %d transcript(s) in %s", len(paths), w.cfg.Root)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.MaxConcurrent)
	for _, path := range paths {
		g.Go(func() error {
			if err := w.handler(gctx, path); err != nil {
				w.logger.Error(gctx, "Failed to process %s: %v", path, err)
			}
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return len(paths), err
	}
	return len(paths), nil
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	w.shutdown()
	return w.watcher.Close()
}

func (w *implWatcher) shutdown() {
	w.quitOnce.Do(func() { close(w.quit) })
}

func (w *implWatcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// addTree watches root and every directory below it.
func (w *implWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}

func (w *implWatcher) matches(path string) bool {
	base := filepath.Base(path)
	if w.cfg.Name != "" {
		return base == w.cfg.Name
	}
	return strings.EqualFold(filepath.Ext(base), ".txt")
}

func (w *implWatcher) largeEnough(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() >= w.cfg.MinSize
}
