package processor

import (
	"sync"

	"github.com/nguyentantai21042004/minutes-flow/internal/events"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
	"github.com/nguyentantai21042004/minutes-flow/internal/storage"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

type implProcessor struct {
	parser     *transcript.Parser
	summarizer summarizer.Summarizer
	storage    storage.Storage
	events     events.Publisher
	metrics    *metrics.Metrics
	logger     logger.Logger

	mu     sync.Mutex
	active map[string]Run
}

// New creates a new Processor instance
func New(parser *transcript.Parser, sum summarizer.Summarizer, store storage.Storage, pub events.Publisher, m *metrics.Metrics, log logger.Logger) Processor {
	return &implProcessor{
		parser:     parser,
		summarizer: sum,
		storage:    store,
		events:     pub,
		metrics:    m,
		logger:     log,
		active:     make(map[string]Run),
	}
}
