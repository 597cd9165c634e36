package provider

import (
	"context"
	"errors"
)

// Stages a request can belong to.
const (
	StageChunk     = "chunk"
	StageSummary   = "summary"
	StageSynthesis = "synthesis"
)

// ErrProviderUnavailable is returned by Client when every attempt failed.
var ErrProviderUnavailable = errors.New("provider unavailable")

// Provider is one text-generation backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is a single generation call.
type Request struct {
	Prompt      string
	Model       string
	Stage       string
	Temperature float64
	MaxTokens   int
}

// Observer receives one call per provider attempt.
type Observer interface {
	ObserveProviderRequest(provider, stage, outcome string, seconds float64)
}
