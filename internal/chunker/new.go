package chunker

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by New when the size settings cannot produce valid chunks.
var ErrInvalidConfig = errors.New("invalid chunking configuration")

// Config holds chunk sizing in bytes.
type Config struct {
	MaxSize int
	Overlap int
	// Tolerance is how far back from the size limit a boundary is searched for.
	// Zero means MaxSize/10.
	Tolerance int
}

type implChunker struct {
	maxSize   int
	overlap   int
	tolerance int
}

// New creates a Chunker, failing with ErrInvalidConfig if overlap >= max size.
func New(cfg Config) (Chunker, error) {
	if cfg.MaxSize <= 0 {
		return nil, fmt.Errorf("%w: max size %d must be positive", ErrInvalidConfig, cfg.MaxSize)
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.MaxSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidConfig, cfg.Overlap, cfg.MaxSize)
	}

	tol := cfg.Tolerance
	if tol <= 0 {
		tol = cfg.MaxSize / 10
	}

	return &implChunker{
		maxSize:   cfg.MaxSize,
		overlap:   cfg.Overlap,
		tolerance: tol,
	}, nil
}
