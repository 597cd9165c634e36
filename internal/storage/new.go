package storage

import (
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type implStorage struct {
	root    string
	sidecar bool
	docx    bool
	logger  logger.Logger
}

// New creates a Storage rooted at cfg.Paths.Output.
func New(cfg *config.Config, log logger.Logger) Storage {
	return &implStorage{
		root:    cfg.Paths.Output,
		sidecar: cfg.Output.MetadataSidecar,
		docx:    cfg.Output.Docx,
		logger:  log,
	}
}
