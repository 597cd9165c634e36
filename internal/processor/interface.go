package processor

import (
	"context"
	"time"
)

// Processor summarizes one transcript file end to end.
type Processor interface {
	// Process parses, summarizes and stores the transcript at path. A duplicate
	// or empty transcript is skipped without error.
	Process(ctx context.Context, path string) error
	// Active lists runs in progress, oldest first.
	Active() []Run
}

// Run is a transcript currently being processed.
type Run struct {
	RunID     string    `json:"run_id"`
	Path      string    `json:"path"`
	StartedAt time.Time `json:"started_at"`
}
