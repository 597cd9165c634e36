package summarizer

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/provider"
	"github.com/nguyentantai21042004/minutes-flow/internal/quality"
)

// chain runs a prompt against providers in priority order.
type chain struct {
	clients   []*provider.Client
	scorer    quality.Scorer
	retrySame bool
	logger    logger.Logger
}

type generation struct {
	Text          string
	Provider      string
	Model         string
	Quality       quality.Metrics
	LowConfidence bool
}

// generate returns the first output from the provider list. With gate set,
// output below the quality threshold is retried once on the same provider and
// then on the next one. If every provider is below threshold the best output
// is returned with LowConfidence set.
func (c *chain) generate(ctx context.Context, prompt, stage string, gate bool, participants []string) (*generation, error) {
	var best *generation
	var lastErr error

	for _, client := range c.clients {
		tries := 1
		if gate && c.retrySame {
			tries = 2
		}

		for try := 0; try < tries; try++ {
			out, err := client.Generate(ctx, prompt, stage)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				c.logger.Warn(ctx, "Provider %s failed for %s: %v", client.Name(), stage, err)
				lastErr = err
				break
			}

			g := &generation{
				Text:     out,
				Provider: client.Name(),
				Model:    client.Model(stage),
				Quality:  c.scorer.Score(out, participants),
			}
			if !gate || g.Quality.Accepted() {
				return g, nil
			}

			c.logger.Warn(ctx, "Provider %s output below quality threshold for %s (score %.2f): %v",
				client.Name(), stage, g.Quality.Score, g.Quality.Issues)
			if best == nil || g.Quality.Score > best.Quality.Score {
				best = g
			}
		}
	}

	if best != nil {
		best.LowConfidence = true
		c.logger.Warn(ctx, "No provider met the quality threshold for %s, using %s (score %.2f)",
			stage, best.Provider, best.Quality.Score)
		return best, nil
	}
	if lastErr == nil {
		return nil, ErrAllProvidersFailed
	}
	return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}
