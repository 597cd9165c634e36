package summarizer

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/minutes-flow/internal/quality"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

// ErrAllProvidersFailed is returned when no provider produced usable output.
var ErrAllProvidersFailed = errors.New("all providers failed")

// Summarizer turns a transcript into one summary document.
type Summarizer interface {
	Summarize(ctx context.Context, t *transcript.Transcript) (*Document, error)
}

// Document strategies.
const (
	StrategySingle       = "single"
	StrategySynthesized  = "synthesized"
	StrategyConcatenated = "concatenated"
)

// Section statuses.
const (
	SectionOK          = "ok"
	SectionUnavailable = "unavailable"
)

// ChunkResult is the outcome of summarizing one chunk.
type ChunkResult struct {
	Index    int
	Total    int
	Output   string
	Provider string
	Model    string
	Digest   string
	Quality  quality.Metrics
	// LowConfidence is set when no provider met the quality threshold.
	LowConfidence bool
	Err           error
}

// OK reports whether the chunk produced output.
func (r *ChunkResult) OK() bool {
	return r.Err == nil && r.Output != ""
}

// Section is one line of the coverage list.
type Section struct {
	Index    int     `json:"index"`
	Status   string  `json:"status"`
	Provider string  `json:"provider,omitempty"`
	Model    string  `json:"model,omitempty"`
	Score    float64 `json:"score"`
	Error    string  `json:"error,omitempty"`
}

// Document is the final summary of one transcript.
type Document struct {
	Metadata      transcript.Metadata
	Body          string
	Sections      []Section
	Strategy      string
	Provider      string
	Model         string
	Quality       quality.Metrics
	LowConfidence bool
}
