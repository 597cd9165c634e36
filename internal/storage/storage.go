package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/quality"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

// Save stages the Markdown, sidecar and DOCX as temp files and renames them
// into place only once all are written. If a rename fails, files already
// renamed are removed so a failed run leaves no output.
func (s *implStorage) Save(ctx context.Context, doc *summarizer.Document) (Result, error) {
	mdPath := s.PathFor(doc.Metadata)
	dir := filepath.Dir(mdPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	base := strings.TrimSuffix(mdPath, ".md")
	var files []staged
	defer func() {
		for _, f := range files {
			os.Remove(f.tmp)
		}
	}()

	if s.sidecar {
		data, err := sidecar(doc, mdPath)
		if err != nil {
			return Result{}, err
		}
		f, err := stage(base+".json", func(tmp string) error { return os.WriteFile(tmp, data, 0644) })
		if err != nil {
			return Result{}, fmt.Errorf("write sidecar: %w", err)
		}
		files = append(files, f)
	}

	if s.docx {
		f, err := stage(base+".docx", func(tmp string) error { return saveDocx(doc, tmp) })
		if err != nil {
			s.logger.Warn(ctx, "Failed to write DOCX for %s: %v", mdPath, err)
		} else {
			files = append(files, f)
		}
	}

	md, err := stage(mdPath, func(tmp string) error { return os.WriteFile(tmp, []byte(render(doc)), 0644) })
	if err != nil {
		return Result{}, fmt.Errorf("write summary: %w", err)
	}
	files = append(files, md)

	if err := commit(files); err != nil {
		return Result{}, fmt.Errorf("write summary: %w", err)
	}

	res := Result{Markdown: mdPath}
	for _, f := range files {
		switch filepath.Ext(f.target) {
		case ".json":
			res.Sidecar = f.target
		case ".docx":
			res.Docx = f.target
		}
	}
	s.logger.Info(ctx, "Saved summary: %s", mdPath)
	return res, nil
}

// Existing reports a summary already written for the same meeting: same date,
// start time and title.
func (s *implStorage) Existing(meta transcript.Metadata) (string, bool) {
	expected := s.PathFor(meta)
	if info, err := os.Stat(expected); err == nil && !info.IsDir() {
		return expected, true
	}
	return "", false
}

func (s *implStorage) Stats() (Stats, error) {
	st := Stats{Root: s.root, ByPeriod: make(map[string]int)}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == s.root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		switch {
		case strings.HasSuffix(name, summarySuffix):
			info, err := d.Info()
			if err != nil {
				return err
			}
			st.TotalSummaries++
			st.TotalBytes += info.Size()
			if rel, err := filepath.Rel(s.root, path); err == nil {
				if parts := strings.Split(filepath.ToSlash(rel), "/"); len(parts) >= 3 {
					st.ByPeriod[parts[0]+"/"+parts[1]]++
				} else if len(parts) == 2 {
					st.ByPeriod[parts[0]]++
				}
			}
		case strings.HasSuffix(name, "_summary.json"):
			st.SidecarFiles++
		case strings.HasSuffix(name, "_summary.docx"):
			st.DocxFiles++
		}
		return nil
	})
	if err != nil {
		return st, fmt.Errorf("walk output: %w", err)
	}
	return st, nil
}

type staged struct {
	tmp    string
	target string
}

// stage creates a temp file next to target, fills it with write and syncs it.
func stage(target string, write func(tmp string) error) (staged, error) {
	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return staged{}, err
	}
	tmp := f.Name()
	f.Close()

	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return staged{}, err
	}
	if err := syncFile(tmp); err != nil {
		os.Remove(tmp)
		return staged{}, err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return staged{}, err
	}
	return staged{tmp: tmp, target: target}, nil
}

func syncFile(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// commit renames every staged file in order. On failure the targets already
// renamed are removed.
func commit(files []staged) error {
	for i, f := range files {
		if err := os.Rename(f.tmp, f.target); err != nil {
			for _, done := range files[:i] {
				os.Remove(done.target)
			}
			return err
		}
	}
	return nil
}

type sidecarFile struct {
	Meeting transcript.Metadata `json:"meeting"`
	Summary sidecarSummary      `json:"summary"`
}

type sidecarSummary struct {
	Path          string               `json:"path"`
	Strategy      string               `json:"strategy"`
	Provider      string               `json:"provider"`
	Model         string               `json:"model"`
	LowConfidence bool                 `json:"low_confidence"`
	Quality       quality.Metrics      `json:"quality"`
	Sections      []summarizer.Section `json:"sections"`
}

func sidecar(doc *summarizer.Document, mdPath string) ([]byte, error) {
	data, err := json.MarshalIndent(sidecarFile{
		Meeting: doc.Metadata,
		Summary: sidecarSummary{
			Path:          filepath.Base(mdPath),
			Strategy:      doc.Strategy,
			Provider:      doc.Provider,
			Model:         doc.Model,
			LowConfidence: doc.LowConfidence,
			Quality:       doc.Quality,
			Sections:      doc.Sections,
		},
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sidecar: %w", err)
	}
	return append(data, '\n'), nil
}
