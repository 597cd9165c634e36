package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/minutes-flow/internal/events"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

const (
	statusSuccess   = "success"
	statusFailed    = "failed"
	statusDuplicate = "duplicate"
	statusSkipped   = "skipped"
)

// Process orchestrates one transcript: parse, duplicate check, summarize, save.
func (p *implProcessor) Process(ctx context.Context, path string) error {
	run := Run{RunID: uuid.NewString(), Path: path, StartedAt: time.Now()}
	if !p.begin(run) {
		p.logger.Info(ctx, "Already processing %s", path)
		return nil
	}
	defer p.end(path)

	ctx = logger.WithRun(ctx, run.RunID, filepath.Base(filepath.Dir(path)))
	p.logger.Info(ctx, "Starting transcript: %s", path)

	status, err := p.process(ctx, run)
	p.metrics.RecordTranscript(status, time.Since(run.StartedAt).Seconds())
	if err != nil {
		p.logger.Error(ctx, "Transcript failed after %s: %v", time.Since(run.StartedAt).Round(time.Millisecond), err)
		return err
	}
	p.logger.Info(ctx, "Transcript %s in %s", status, time.Since(run.StartedAt).Round(time.Millisecond))
	return nil
}

func (p *implProcessor) process(ctx context.Context, run Run) (string, error) {
	t, err := p.parser.ParseFile(run.Path)
	if errors.Is(err, transcript.ErrEmpty) {
		p.logger.Warn(ctx, "Transcript is empty, skipping: %s", run.Path)
		p.publish(ctx, events.Event{Type: events.TypeSkipped, RunID: run.RunID, Source: run.Path, Error: err.Error()})
		return statusSkipped, nil
	}
	if err != nil {
		p.publish(ctx, events.Event{Type: events.TypeFailed, RunID: run.RunID, Source: run.Path, Error: err.Error()})
		return statusFailed, fmt.Errorf("parse transcript: %w", err)
	}

	meta := t.Metadata
	p.logger.Info(ctx, "Meeting %q on %s %s: %d participants, %s, %s",
		meta.Title, meta.Date, meta.Time, len(meta.Participants), meta.Duration, meta.MeetingType)

	if existing, ok := p.storage.Existing(meta); ok {
		p.logger.Info(ctx, "Summary already exists, skipping: %s", existing)
		return statusDuplicate, nil
	}

	doc, err := p.summarizer.Summarize(ctx, t)
	if err != nil {
		p.publish(ctx, failedEvent(run, meta, err))
		return statusFailed, fmt.Errorf("summarize: %w", err)
	}

	res, err := p.storage.Save(ctx, doc)
	if err != nil {
		p.publish(ctx, failedEvent(run, meta, err))
		return statusFailed, fmt.Errorf("save summary: %w", err)
	}

	unavailable := 0
	for _, s := range doc.Sections {
		if s.Status == summarizer.SectionUnavailable {
			unavailable++
		}
	}
	p.metrics.RecordDocument(len(doc.Sections), unavailable, doc.Quality.Score, doc.LowConfidence)
	if unavailable > 0 {
		p.logger.Warn(ctx, "%d of %d sections unavailable", unavailable, len(doc.Sections))
	}

	p.publish(ctx, events.Event{
		Type:          events.TypeCompleted,
		RunID:         run.RunID,
		Title:         meta.Title,
		Date:          meta.Date,
		Source:        run.Path,
		Output:        res.Markdown,
		Provider:      doc.Provider,
		Model:         doc.Model,
		Strategy:      doc.Strategy,
		Score:         doc.Quality.Score,
		LowConfidence: doc.LowConfidence,
		Sections:      len(doc.Sections),
		Unavailable:   unavailable,
	})
	return statusSuccess, nil
}

func failedEvent(run Run, meta transcript.Metadata, err error) events.Event {
	return events.Event{
		Type:   events.TypeFailed,
		RunID:  run.RunID,
		Title:  meta.Title,
		Date:   meta.Date,
		Source: run.Path,
		Error:  err.Error(),
	}
}

// publish never fails the run.
func (p *implProcessor) publish(ctx context.Context, ev events.Event) {
	if err := p.events.Publish(ctx, ev); err != nil {
		p.logger.Warn(ctx, "Failed to publish %s event: %v", ev.Type, err)
	}
}

func (p *implProcessor) begin(run Run) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.active[run.Path]; ok {
		return false
	}
	p.active[run.Path] = run
	p.metrics.InFlight.Inc()
	return true
}

func (p *implProcessor) end(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.active, path)
	p.metrics.InFlight.Dec()
}

func (p *implProcessor) Active() []Run {
	p.mu.Lock()
	runs := make([]Run, 0, len(p.active))
	for _, r := range p.active {
		runs = append(runs, r)
	}
	p.mu.Unlock()

	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.Before(runs[j].StartedAt) })
	return runs
}
