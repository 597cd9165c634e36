package summarizer

import (
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/minutes-flow/internal/chunker"
)

// Context modes.
const (
	ContextOutput     = "output"
	ContextTranscript = "transcript"
)

// Carrier builds the bounded digest passed from one chunk to the next.
type Carrier struct {
	mode  string
	limit int
}

// NewCarrier creates a Carrier. limit is the digest size in bytes.
func NewCarrier(mode string, limit int) *Carrier {
	if mode == "" {
		mode = ContextOutput
	}
	return &Carrier{mode: mode, limit: limit}
}

// Digest returns context for the chunk after prevChunk. Both arguments are nil
// for the first chunk, which gets "". A failed previous result falls back to
// the transcript text.
func (c *Carrier) Digest(prev *ChunkResult, prevChunk *chunker.Chunk) string {
	if c.mode == ContextOutput && prev != nil && prev.OK() {
		return tail(prev.Output, c.limit)
	}
	if prevChunk != nil {
		return tail(prevChunk.Content(), c.limit)
	}
	return ""
}

// tail returns at most limit trailing bytes of s, starting at a word.
func tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || len(s) <= limit {
		return s
	}

	start := len(s) - limit
	if i := strings.IndexAny(s[start:], " \n\t"); i >= 0 && start+i+1 < len(s) {
		start += i + 1
	} else {
		for start < len(s) && !utf8.RuneStart(s[start]) {
			start++
		}
	}
	return strings.TrimSpace(s[start:])
}
