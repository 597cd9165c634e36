package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

type boundary int

const (
	noBoundary boundary = iota
	wordBoundary
	sentenceBoundary
	speakerBoundary
)

// Chunk splits text into windows no larger than MaxSize. Every chunk after the
// first starts with up to Overlap bytes of the preceding text.
func (c *implChunker) Chunk(text string) []Chunk {
	n := len(text)
	if n <= c.maxSize {
		return []Chunk{{Index: 0, Start: 0, End: n, Text: text}}
	}

	var chunks []Chunk
	start := 0
	for start < n {
		ovStart := start
		if len(chunks) > 0 && c.overlap > 0 {
			ovStart = snapForward(text, start-c.overlap, start)
		}

		limit := start + c.maxSize - (start - ovStart)
		end := n
		if limit < n {
			end = c.cut(text, start, limit)
		}
		// A cut moved forward to a rune start is paid for by a shorter overlap.
		if end-ovStart > c.maxSize {
			ovStart = snapForward(text, min(end-c.maxSize, start), start)
		}

		chunks = append(chunks, Chunk{
			Index:   len(chunks),
			Start:   start,
			End:     end,
			Overlap: start - ovStart,
			Text:    text[ovStart:end],
		})
		start = end
	}
	return chunks
}

// cut picks the end of a chunk starting at start, at most limit. It prefers the
// strongest boundary within the tolerance window, nearest to limit.
func (c *implChunker) cut(text string, start, limit int) int {
	lo := limit - c.tolerance
	if lo <= start {
		lo = start + 1
	}

	best, bestKind := 0, noBoundary
	for p := limit; p >= lo && bestKind < speakerBoundary; p-- {
		if kind := boundaryAt(text, start, p); kind > bestKind {
			best, bestKind = p, kind
		}
	}
	if bestKind != noBoundary {
		return best
	}

	p := limit
	for p > start+1 && !utf8.RuneStart(text[p]) {
		p--
	}
	if !utf8.RuneStart(text[p]) {
		// The budget is narrower than the rune at start.
		for p = limit; p < len(text) && !utf8.RuneStart(text[p]); p++ {
		}
	}
	return p
}

// boundaryAt classifies a cut between text[p-1] and text[p].
func boundaryAt(text string, start, p int) boundary {
	prev := text[p-1]
	if !isSpace(prev) {
		return noBoundary
	}
	if prev == '\n' {
		line := text[p:]
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		if _, _, ok := transcript.ParseSpeakerLine(line); ok {
			return speakerBoundary
		}
		return sentenceBoundary
	}
	if p-2 >= start {
		switch text[p-2] {
		case '.', '!', '?':
			return sentenceBoundary
		}
	}
	return wordBoundary
}

// snapForward returns the first word start in [from, to), or a rune-aligned
// from when the range holds no whitespace. The result is never below from.
func snapForward(text string, from, to int) int {
	if from <= 0 {
		return 0
	}
	for i := from; i < to; i++ {
		if isSpace(text[i-1]) && !isSpace(text[i]) {
			return i
		}
	}
	for from < to && !utf8.RuneStart(text[from]) {
		from++
	}
	return from
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
