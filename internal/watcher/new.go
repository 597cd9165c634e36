package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"golang.org/x/sync/semaphore"
)

// New creates a Watcher over cfg.Root and every directory below it.
func New(cfg Config, handler EventHandler, log logger.Logger) (Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}

	w := &implWatcher{
		cfg:      cfg,
		handler:  handler,
		logger:   log,
		watcher:  fw,
		sem:      semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		timers:   make(map[string]*time.Timer),
		inflight: make(map[string]bool),
		ready:    make(chan string, 64),
		quit:     make(chan struct{}),
	}

	if err := w.addTree(cfg.Root); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}
	return w, nil
}
