package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/prompt"
	"github.com/nguyentantai21042004/minutes-flow/internal/provider"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

// Synthesizer merges chunk results into one Document.
type Synthesizer struct {
	prompts prompt.Assembler
	chain   *chain
	logger  logger.Logger
}

// Synthesize builds the final document. A single result passes through
// unchanged. Multiple results go through the synthesis prompt, and if that
// fails they are concatenated in order; either way the body ends with a
// coverage list. It fails only when no chunk succeeded.
func (s *Synthesizer) Synthesize(ctx context.Context, meta transcript.Metadata, results []ChunkResult) (*Document, error) {
	doc := &Document{Metadata: meta, Sections: sections(results)}

	ok := 0
	var lastErr error
	for i := range results {
		if results[i].OK() {
			ok++
		} else if results[i].Err != nil {
			lastErr = results[i].Err
		}
	}
	if ok == 0 {
		if lastErr == nil {
			return nil, ErrAllProvidersFailed
		}
		return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
	}

	if len(results) == 1 {
		r := results[0]
		doc.Strategy = StrategySingle
		doc.Provider, doc.Model = r.Provider, r.Model
		doc.Quality, doc.LowConfidence = r.Quality, r.LowConfidence
		doc.Body = r.Output
		return doc, nil
	}

	values := metaValues(s.prompts, meta)
	values["chunk_summaries"] = joinSections(results)

	text, err := render(ctx, s.prompts, s.logger, prompt.Synthesis, values)
	if err == nil {
		var g *generation
		g, err = s.chain.generate(ctx, text, provider.StageSynthesis, true, meta.Participants)
		if err == nil {
			doc.Strategy = StrategySynthesized
			doc.Provider, doc.Model = g.Provider, g.Model
			doc.Quality, doc.LowConfidence = g.Quality, g.LowConfidence
			doc.Body = withCoverage(g.Text, doc.Sections)
			return doc, nil
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	s.logger.Warn(ctx, "Synthesis failed, concatenating %d sections: %v", len(results), err)
	body := joinSections(results)
	doc.Strategy = StrategyConcatenated
	doc.Quality = s.chain.scorer.Score(body, meta.Participants)
	doc.LowConfidence = true
	doc.Body = withCoverage(body, doc.Sections)
	return doc, nil
}

func sections(results []ChunkResult) []Section {
	out := make([]Section, len(results))
	for i, r := range results {
		out[i] = Section{Index: r.Index, Status: SectionOK, Provider: r.Provider, Model: r.Model, Score: r.Quality.Score}
		if !r.OK() {
			out[i] = Section{Index: r.Index, Status: SectionUnavailable}
			if r.Err != nil {
				out[i].Error = r.Err.Error()
			}
		}
	}
	return out
}

func sectionLabel(index, total int) string {
	return fmt.Sprintf("Section %d/%d", index+1, total)
}

func joinSections(results []ChunkResult) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := sectionLabel(r.Index, len(results))
		b.WriteString("### " + label + "\n")
		if r.OK() {
			b.WriteString(r.Output)
		} else {
			b.WriteString(label + " unavailable")
		}
	}
	return b.String()
}

// withCoverage appends the coverage list, one line per section.
func withCoverage(body string, secs []Section) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n\n## Section Coverage\n\n")
	for _, sec := range secs {
		label := sectionLabel(sec.Index, len(secs))
		if sec.Status == SectionOK {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", label, sec.Provider, sec.Model)
		} else {
			fmt.Fprintf(&b, "- %s unavailable\n", label)
		}
	}
	return b.String()
}

func metaValues(asm prompt.Assembler, meta transcript.Metadata) prompt.Values {
	participants := "Unknown"
	if len(meta.Participants) > 0 {
		participants = strings.Join(meta.Participants, ", ")
	}
	return prompt.Values{
		"meeting_title":     meta.Title,
		"meeting_date":      meta.Date,
		"meeting_duration":  meta.Duration,
		"meeting_type":      meta.MeetingType,
		"participants":      participants,
		"type_instructions": asm.Instructions(meta.MeetingKind),
	}
}

func render(ctx context.Context, asm prompt.Assembler, log logger.Logger, name string, values prompt.Values) (string, error) {
	text, missing, err := asm.Build(name, values)
	if err != nil {
		return "", err
	}
	if len(missing) > 0 {
		log.Warn(ctx, "Template %s has no value for %s", name, strings.Join(missing, ", "))
	}
	return text, nil
}
