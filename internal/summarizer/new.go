package summarizer

import (
	"github.com/nguyentantai21042004/minutes-flow/internal/chunker"
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/prompt"
	"github.com/nguyentantai21042004/minutes-flow/internal/provider"
	"github.com/nguyentantai21042004/minutes-flow/internal/quality"
)

type implSummarizer struct {
	chunker chunker.Chunker
	carrier *Carrier
	prompts prompt.Assembler
	chain   *chain
	synth   *Synthesizer
	logger  logger.Logger
}

// New creates a Summarizer. clients are tried in order.
func New(cfg *config.Config, ch chunker.Chunker, prompts prompt.Assembler, clients []*provider.Client, scorer quality.Scorer, log logger.Logger) Summarizer {
	c := &chain{
		clients:   clients,
		scorer:    scorer,
		retrySame: cfg.Quality.RetrySameProvider,
		logger:    log,
	}
	return &implSummarizer{
		chunker: ch,
		carrier: NewCarrier(cfg.Chunking.ContextMode, cfg.Chunking.ContextLimit),
		prompts: prompts,
		chain:   c,
		synth:   &Synthesizer{prompts: prompts, chain: c, logger: log},
		logger:  log,
	}
}
