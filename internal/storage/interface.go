package storage

import (
	"context"

	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

// Storage writes summary documents under a date-organized tree.
type Storage interface {
	// Save writes the document atomically and returns the files written.
	Save(ctx context.Context, doc *summarizer.Document) (Result, error)
	// Existing returns the path of a summary already written for the meeting.
	Existing(meta transcript.Metadata) (string, bool)
	// PathFor returns where the summary for meta is written.
	PathFor(meta transcript.Metadata) string
	Stats() (Stats, error)
}

// Result lists the files written by Save. Empty fields were not written.
type Result struct {
	Markdown string `json:"markdown"`
	Sidecar  string `json:"sidecar,omitempty"`
	Docx     string `json:"docx,omitempty"`
}

// Stats summarizes the output tree.
type Stats struct {
	Root           string         `json:"root"`
	TotalSummaries int            `json:"total_summaries"`
	TotalBytes     int64          `json:"total_bytes"`
	SidecarFiles   int            `json:"sidecar_files"`
	DocxFiles      int            `json:"docx_files"`
	ByPeriod       map[string]int `json:"by_period"`
}
