package watcher

import (
	"context"
	"time"
)

// Watcher monitors the input tree for finished transcript files.
type Watcher interface {
	// Start blocks until ctx is cancelled, then waits for running handlers.
	Start(ctx context.Context) error
	// Scan hands every matching file modified within maxAge to the handler.
	// A non-positive maxAge scans everything. It returns the number dispatched.
	Scan(ctx context.Context, maxAge time.Duration) (int, error)
	Stop() error
}

// EventHandler is a function that handles a ready transcript file
type EventHandler func(ctx context.Context, filePath string) error

// Config controls which files are dispatched and when.
type Config struct {
	Root string
	// Name is the transcript file name to match. Empty matches any .txt file.
	Name          string
	MinSize       int64
	StableTime    time.Duration
	MaxConcurrent int
}
