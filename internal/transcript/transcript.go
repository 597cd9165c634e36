// Package transcript reads Zoom caption files and derives meeting metadata.
package transcript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ErrEmpty is returned when a transcript file has no usable content.
var ErrEmpty = errors.New("transcript is empty")

// Metadata describes the meeting a transcript belongs to.
type Metadata struct {
	Title        string    `json:"title"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	StartedAt    time.Time `json:"started_at"`
	Duration     string    `json:"duration"`
	Participants []string  `json:"participants"`
	MeetingType  string    `json:"meeting_type"`
	SourcePath   string    `json:"source_path"`
	SourceSize   int64     `json:"source_size"`

	// MeetingKind is the detected profile key, e.g. "technical" or "general_sync".
	MeetingKind    string  `json:"meeting_kind"`
	KindConfidence float64 `json:"kind_confidence"`
}

// Transcript is a cleaned transcript and its metadata. Treat as read-only.
type Transcript struct {
	Text     string
	Metadata Metadata
}

// Len returns the transcript length in bytes.
func (t *Transcript) Len() int {
	return len(t.Text)
}

// speakerLine matches "Name HH:MM:SS" or "[Name] HH:MM:SS". Names carry no
// sentence punctuation and the timestamp always has seconds.
var speakerLine = regexp.MustCompile(`^\[?([^\[\]\n.,!?;:"]{1,50}?)\]?\s+(\d{1,2}:\d{2}:\d{2})\s*$`)

const maxNameWords = 5

// trailingWords end spoken sentences like "see you at 10:30:00", never names.
var trailingWords = map[string]bool{
	"at": true, "by": true, "until": true, "till": true, "around": true, "about": true,
	"before": true, "after": true, "from": true, "to": true, "since": true, "is": true,
}

// ParseSpeakerLine reports the speaker and timestamp of a speaker header line.
func ParseSpeakerLine(line string) (speaker, timestamp string, ok bool) {
	m := speakerLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}

	words := strings.Fields(m[1])
	if len(words) == 0 || len(words) > maxNameWords || trailingWords[strings.ToLower(words[len(words)-1])] {
		return "", "", false
	}
	return strings.Join(words, " "), m[2], true
}

// Parser reads transcript files.
type Parser struct {
	profiles map[string]Profile
}

// NewParser creates a Parser that detects meeting kinds with profiles, keyed
// by kind (e.g. "one_on_one"). A nil map uses DefaultProfiles.
func NewParser(profiles map[string]Profile) *Parser {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	return &Parser{profiles: profiles}
}

// ParseFile reads the file at path and returns the cleaned transcript.
func (p *Parser) ParseFile(path string) (*Transcript, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat transcript: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	t, err := p.Parse(string(data), filepath.Base(filepath.Dir(path)))
	if err != nil {
		return nil, err
	}
	t.Metadata.SourcePath = path
	t.Metadata.SourceSize = info.Size()
	return t, nil
}

// Parse cleans raw transcript text. folder is the Zoom meeting folder name
// ("YYYY-MM-DD HH.MM.SS Title") used for title and date.
func (p *Parser) Parse(raw, folder string) (*Transcript, error) {
	text := clean(raw)
	if text == "" {
		return nil, ErrEmpty
	}

	meta := folderMetadata(folder)
	meta.Participants = participants(text)
	meta.Duration = estimateDuration(text)

	det := p.Detect(text, meta.Title, len(meta.Participants))
	meta.MeetingKind, meta.KindConfidence = det.Kind, det.Confidence
	if det.Kind != KindGeneral {
		meta.MeetingType = p.label(det.Kind)
	} else {
		meta.MeetingKind, meta.MeetingType = p.classify(meta.Title, meta.Participants)
	}

	return &Transcript{Text: text, Metadata: meta}, nil
}

func clean(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) < 3 {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func folderMetadata(folder string) Metadata {
	parts := strings.SplitN(folder, " ", 3)
	if len(parts) == 3 {
		if started, err := time.ParseInLocation("2006-01-02 15.04.05", parts[0]+" "+parts[1], time.Local); err == nil {
			return Metadata{
				Title:     strings.TrimSpace(parts[2]),
				Date:      started.Format("2006-01-02"),
				Time:      started.Format("15:04"),
				StartedAt: started,
			}
		}
	}

	title := strings.TrimSpace(folder)
	if title == "" || title == "." {
		title = "Untitled Meeting"
	}
	return Metadata{Title: title, Date: "Unknown", Time: "Unknown"}
}

func participants(text string) []string {
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		if speaker, _, ok := ParseSpeakerLine(line); ok {
			seen[speaker] = true
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func estimateDuration(text string) string {
	var first, last string
	for _, line := range strings.Split(text, "\n") {
		if _, ts, ok := ParseSpeakerLine(line); ok {
			if first == "" {
				first = ts
			}
			last = ts
		}
	}

	if first != "" && last != first {
		diff := seconds(last) - seconds(first)
		if diff < 0 {
			diff += 24 * 3600
		}
		return "~" + formatSeconds(diff)
	}

	minutes := len(strings.Fields(text)) / 150
	if minutes < 5 {
		minutes = 5
	}
	return fmt.Sprintf("~%dm", minutes)
}

func seconds(ts string) int {
	var h, m, s int
	switch strings.Count(ts, ":") {
	case 2:
		fmt.Sscanf(ts, "%d:%d:%d", &h, &m, &s)
	case 1:
		fmt.Sscanf(ts, "%d:%d", &m, &s)
	}
	return h*3600 + m*60 + s
}

func formatSeconds(d int) string {
	switch {
	case d < 60:
		return fmt.Sprintf("%ds", d)
	case d < 3600:
		return fmt.Sprintf("%dm", d/60)
	default:
		return fmt.Sprintf("%dh%dm", d/3600, (d%3600)/60)
	}
}

// classify is the fallback when content is inconclusive: title words first,
// then participant count.
func (p *Parser) classify(title string, people []string) (kind, label string) {
	lower := strings.ToLower(title)

	for _, k := range p.kinds() {
		for _, kw := range p.profiles[k].TitleWords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return k, p.label(k)
			}
		}
	}

	switch {
	case len(people) <= 2:
		return KindGeneral, "One-on-One"
	case len(people) <= 5:
		return KindGeneral, "Small Team Meeting"
	default:
		return KindGeneral, "Group Meeting"
	}
}

func (p *Parser) label(kind string) string {
	if l := p.profiles[kind].Label; l != "" {
		return l
	}
	return titleCase(strings.ReplaceAll(kind, "_", " "))
}

func (p *Parser) kinds() []string {
	return sortedKinds(p.profiles)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
