package storage

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

const (
	summarySuffix = "_summary.md"
	maxFilename   = 100
	maxTitle      = 50
)

var filenameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "-", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
)

// PathFor returns root/YYYY/MM-Month/YYYY-MM-DD_HH-MM_Title_summary.md, or
// root/unknown/Title_summary.md when the meeting date is not known.
func (s *implStorage) PathFor(meta transcript.Metadata) string {
	title := cleanFilename(meta.Title)

	date, err := time.Parse("2006-01-02", meta.Date)
	if err != nil {
		return filepath.Join(s.root, "unknown", title+summarySuffix)
	}

	timePart := "unknown"
	if len(meta.Time) == 5 && meta.Time[2] == ':' {
		timePart = strings.Replace(meta.Time, ":", "-", 1)
	}

	prefix := date.Format("2006-01-02") + "_" + timePart + "_"
	if over := len(prefix) + len(title) + len(summarySuffix) - maxFilename; over > 0 {
		title = trimBytes(title, len(title)-over)
	}

	return filepath.Join(s.root, date.Format("2006"), date.Format("01-January"), prefix+title+summarySuffix)
}

// cleanFilename makes a meeting title safe for use in a file name.
func cleanFilename(title string) string {
	clean := filenameReplacer.Replace(title)
	for strings.Contains(clean, "__") {
		clean = strings.ReplaceAll(clean, "__", "_")
	}
	clean = strings.Trim(clean, "_.")
	clean = trimBytes(clean, maxTitle)
	if clean == "" {
		return "meeting"
	}
	return clean
}

// trimBytes cuts s to at most n bytes without splitting a rune.
func trimBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && n < len(s) && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
