package summarizer

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/minutes-flow/internal/chunker"
	"github.com/nguyentantai21042004/minutes-flow/internal/prompt"
	"github.com/nguyentantai21042004/minutes-flow/internal/provider"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

const firstSection = "This is the first section of the meeting."

// Summarize chunks the transcript, summarizes each chunk in order and
// synthesizes the results.
func (s *implSummarizer) Summarize(ctx context.Context, t *transcript.Transcript) (*Document, error) {
	chunks := s.chunker.Chunk(t.Text)
	s.logger.Info(ctx, "Summarizing %q: %d bytes in %d chunk(s)", t.Metadata.Title, t.Len(), len(chunks))

	var results []ChunkResult
	if len(chunks) == 1 {
		r, err := s.summarizeWhole(ctx, t)
		if err != nil {
			return nil, err
		}
		results = []ChunkResult{r}
	} else {
		var err error
		results, err = s.summarizeChunks(ctx, t, chunks)
		if err != nil {
			return nil, err
		}
	}

	return s.synth.Synthesize(ctx, t.Metadata, results)
}

func (s *implSummarizer) summarizeWhole(ctx context.Context, t *transcript.Transcript) (ChunkResult, error) {
	values := metaValues(s.prompts, t.Metadata)
	values["transcript_content"] = t.Text

	text, err := render(ctx, s.prompts, s.logger, prompt.Summary, values)
	if err != nil {
		return ChunkResult{}, err
	}

	g, err := s.chain.generate(ctx, text, provider.StageSummary, true, t.Metadata.Participants)
	if err != nil {
		return ChunkResult{}, err
	}
	return ChunkResult{
		Index:         0,
		Total:         1,
		Output:        g.Text,
		Provider:      g.Provider,
		Model:         g.Model,
		Quality:       g.Quality,
		LowConfidence: g.LowConfidence,
	}, nil
}

// summarizeChunks runs chunks sequentially so each can see the previous digest.
// A chunk that fails on every provider is kept with Err set.
func (s *implSummarizer) summarizeChunks(ctx context.Context, t *transcript.Transcript, chunks []chunker.Chunk) ([]ChunkResult, error) {
	results := make([]ChunkResult, 0, len(chunks))
	base := metaValues(s.prompts, t.Metadata)

	for i := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ch := &chunks[i]

		var digest string
		if i > 0 {
			digest = s.carrier.Digest(&results[i-1], &chunks[i-1])
		}

		values := make(prompt.Values, len(base)+4)
		for k, v := range base {
			values[k] = v
		}
		values["chunk_info"] = sectionLabel(i, len(chunks))
		values["transcript_content"] = ch.Content()
		values["previous_context"] = firstSection
		values["overlap_content"] = "None"
		if i > 0 {
			values["previous_context"] = digest
			values["overlap_content"] = ch.OverlapText()
		}

		r := ChunkResult{Index: i, Total: len(chunks), Digest: digest}

		text, err := render(ctx, s.prompts, s.logger, prompt.Chunk, values)
		if err != nil {
			return nil, fmt.Errorf("render chunk prompt: %w", err)
		}

		g, err := s.chain.generate(ctx, text, provider.StageChunk, false, t.Metadata.Participants)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			s.logger.Error(ctx, "%s failed: %v", values["chunk_info"], err)
			r.Err = err
		default:
			r.Output, r.Provider, r.Model, r.Quality = g.Text, g.Provider, g.Model, g.Quality
			s.logger.Info(ctx, "%s done with %s (score %.2f)", values["chunk_info"], g.Provider, g.Quality.Score)
		}
		results = append(results, r)
	}
	return results, nil
}
