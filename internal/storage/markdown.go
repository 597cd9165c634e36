package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
)

// render composes the Markdown file. It holds no wall-clock values, so the same
// document always renders to the same bytes.
func render(doc *summarizer.Document) string {
	m := doc.Metadata
	participants := "Unknown"
	if len(m.Participants) > 0 {
		participants = strings.Join(m.Participants, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Meeting Summary: %s\n\n", m.Title)
	fmt.Fprintf(&b, "**Date**: %s %s\n", m.Date, m.Time)
	fmt.Fprintf(&b, "**Duration**: %s\n", m.Duration)
	fmt.Fprintf(&b, "**Participants**: %s\n", participants)
	fmt.Fprintf(&b, "**Type**: %s\n", m.MeetingType)
	if doc.Provider != "" {
		fmt.Fprintf(&b, "**Model**: %s (%s)\n", doc.Model, doc.Provider)
	}
	fmt.Fprintf(&b, "**Strategy**: %s\n", doc.Strategy)
	fmt.Fprintf(&b, "**Quality**: %.2f (%s, %s confidence)\n", doc.Quality.Score, doc.Quality.Label, doc.Quality.Confidence)
	if doc.LowConfidence {
		b.WriteString("\n> Low confidence: no provider met the quality threshold.\n")
	}
	b.WriteString("\n---\n\n")

	b.WriteString(strings.TrimSpace(doc.Body))

	b.WriteString("\n\n---\n## Technical Details\n")
	if m.SourcePath != "" {
		fmt.Fprintf(&b, "- **Source File**: `%s`\n", filepath.Base(m.SourcePath))
	}
	fmt.Fprintf(&b, "- **File Size**: %d bytes\n", m.SourceSize)
	fmt.Fprintf(&b, "- **Participants Count**: %d\n", len(m.Participants))
	fmt.Fprintf(&b, "- **Sections**: %d\n", len(doc.Sections))
	return b.String()
}
