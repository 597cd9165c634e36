package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/quality"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

func newTestStorage(t *testing.T, sidecar, docx bool) (Storage, string) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Output = root
	cfg.Output.MetadataSidecar = sidecar
	cfg.Output.Docx = docx
	return New(cfg, logger.Nop()), root
}

func testDoc() *summarizer.Document {
	return &summarizer.Document{
		Metadata: transcript.Metadata{
			Title:        "Q3 Planning: API/Billing",
			Date:         "2025-03-14",
			Time:         "10:05",
			Duration:     "~45m",
			Participants: []string{"Alice", "Bob"},
			MeetingType:  "Planning",
			SourcePath:   "/zoom/2025-03-14 10.05.00 Q3 Planning/meeting_saved_closed_caption.txt",
			SourceSize:   2048,
		},
		Body:     "## Action Items\n- [ ] **@Alice** - ship it\n\n## Section Coverage\n\n- Section 1/1: local (llama3)\n",
		Sections: []summarizer.Section{{Index: 0, Status: summarizer.SectionOK, Provider: "local", Model: "llama3"}},
		Strategy: summarizer.StrategySingle,
		Provider: "local",
		Model:    "llama3",
		Quality:  quality.Metrics{Score: 0.8, Label: quality.Accepted, Confidence: "high"},
	}
}

func TestPathFor(t *testing.T) {
	s, root := newTestStorage(t, false, false)

	tests := []struct {
		name string
		meta transcript.Metadata
		want string
	}{
		{
			name: "dated meeting",
			meta: transcript.Metadata{Title: "Daily Standup", Date: "2025-03-14", Time: "09:30"},
			want: "2025/03-March/2025-03-14_09-30_Daily_Standup_summary.md",
		},
		{
			name: "unsafe characters",
			meta: transcript.Metadata{Title: "Q3 Planning: API/Billing?", Date: "2024-12-01", Time: "14:00"},
			want: "2024/12-December/2024-12-01_14-00_Q3_Planning-_API_Billing_summary.md",
		},
		{
			name: "unknown time",
			meta: transcript.Metadata{Title: "Sync", Date: "2025-01-02", Time: "Unknown"},
			want: "2025/01-January/2025-01-02_unknown_Sync_summary.md",
		},
		{
			name: "unknown date",
			meta: transcript.Metadata{Title: "random folder", Date: "Unknown"},
			want: "unknown/random_folder_summary.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.PathFor(tt.meta)
			if got != filepath.Join(root, filepath.FromSlash(tt.want)) {
				t.Errorf("PathFor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Daily  Standup", "Daily_Standup"},
		{"__a//b__", "a_b"},
		{"", "meeting"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
		{strings.Repeat("é", 30), strings.Repeat("é", 25)},
	}
	for _, tt := range tests {
		if got := cleanFilename(tt.in); got != tt.want {
			t.Errorf("cleanFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveWritesFiles(t *testing.T) {
	s, root := newTestStorage(t, true, true)
	doc := testDoc()

	res, err := s.Save(context.Background(), doc)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	md, err := os.ReadFile(res.Markdown)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	for _, want := range []string{"# Meeting Summary: Q3 Planning: API/Billing", "**Participants**: Alice, Bob", "- [ ] **@Alice** - ship it", "`meeting_saved_closed_caption.txt`"} {
		if !strings.Contains(string(md), want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	var side sidecarFile
	data, err := os.ReadFile(res.Sidecar)
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	if err := json.Unmarshal(data, &side); err != nil {
		t.Fatalf("sidecar is not JSON: %v", err)
	}
	if side.Summary.Provider != "local" || len(side.Summary.Sections) != 1 {
		t.Errorf("sidecar = %+v", side.Summary)
	}

	if res.Docx != "" {
		if info, err := os.Stat(res.Docx); err != nil || info.Size() == 0 {
			t.Errorf("docx not written: %v", err)
		}
	}

	entries, _ := os.ReadDir(filepath.Dir(res.Markdown))
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if !strings.HasPrefix(res.Markdown, root) {
		t.Errorf("markdown written outside root: %s", res.Markdown)
	}
}

func TestRenderDeterministic(t *testing.T) {
	a, b := render(testDoc()), render(testDoc())
	if a != b {
		t.Error("render output differs between calls")
	}

	doc := testDoc()
	doc.LowConfidence = true
	if !strings.Contains(render(doc), "Low confidence") {
		t.Error("low-confidence flag not rendered")
	}
}

func TestExisting(t *testing.T) {
	s, _ := newTestStorage(t, false, false)

	saved := transcript.Metadata{Title: "Team Sync", Date: "2025-03-14", Time: "10:00"}
	if _, ok := s.Existing(saved); ok {
		t.Fatal("Existing() true before save")
	}
	doc := testDoc()
	doc.Metadata = saved
	if _, err := s.Save(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		meta transcript.Metadata
		want bool
	}{
		{"same meeting", saved, true},
		{"same title later that day", transcript.Metadata{Title: "Team Sync", Date: "2025-03-14", Time: "16:30"}, false},
		{"title that ends the saved title", transcript.Metadata{Title: "Sync", Date: "2025-03-14", Time: "15:00"}, false},
		{"title that ends the saved title, same time", transcript.Metadata{Title: "Sync", Date: "2025-03-14", Time: "10:00"}, false},
		{"next day", transcript.Metadata{Title: "Team Sync", Date: "2025-03-15", Time: "10:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := s.Existing(tt.meta)
			if ok != tt.want {
				t.Errorf("Existing() = %s, %v; want %v", path, ok, tt.want)
			}
			if ok && path != s.PathFor(tt.meta) {
				t.Errorf("Existing() = %s, want %s", path, s.PathFor(tt.meta))
			}
		})
	}
}

func TestSaveFailureLeavesNoFiles(t *testing.T) {
	s, _ := newTestStorage(t, true, true)
	doc := testDoc()

	// A directory where the Markdown belongs makes the final rename fail.
	mdPath := s.PathFor(doc.Metadata)
	if err := os.MkdirAll(filepath.Join(mdPath, "blocker"), 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Save(context.Background(), doc); err == nil {
		t.Fatal("Save() error = nil with the summary path blocked")
	}

	entries, err := os.ReadDir(filepath.Dir(mdPath))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(mdPath) {
			t.Errorf("failed save left %s behind", e.Name())
		}
	}
	if _, ok := s.Existing(doc.Metadata); ok {
		t.Error("Existing() true after a failed save")
	}
}

func TestStats(t *testing.T) {
	s, root := newTestStorage(t, true, false)

	st, err := s.Stats()
	if err != nil || st.TotalSummaries != 0 {
		t.Fatalf("empty Stats() = %+v, %v", st, err)
	}

	doc := testDoc()
	s.Save(context.Background(), doc)
	doc.Metadata.Date = "2025-04-01"
	s.Save(context.Background(), doc)

	st, err = s.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.TotalSummaries != 2 || st.SidecarFiles != 2 {
		t.Errorf("Stats() = %+v", st)
	}
	if st.ByPeriod["2025/03-March"] != 1 || st.ByPeriod["2025/04-April"] != 1 {
		t.Errorf("ByPeriod = %v", st.ByPeriod)
	}
	if st.Root != root || st.TotalBytes == 0 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestStatsMissingRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.Output = filepath.Join(t.TempDir(), "missing")
	st, err := New(cfg, logger.Nop()).Stats()
	if err != nil || st.TotalSummaries != 0 {
		t.Errorf("Stats() = %+v, %v", st, err)
	}
}
