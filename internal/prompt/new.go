package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrUnknownTemplate is returned for a template name with no definition.
var ErrUnknownTemplate = errors.New("unknown prompt template")

// required lists the placeholders an override must keep for its template to work.
var required = map[string]string{
	Summary:   "transcript_content",
	Chunk:     "transcript_content",
	Synthesis: "chunk_summaries",
}

type implAssembler struct {
	templates    map[string]string
	instructions map[string]string
}

// New creates an Assembler from the built-in templates. When dir is not empty,
// a file named <template>.txt in dir replaces the built-in text. instructions
// overrides the built-in per-kind focus text.
func New(dir string, instructions map[string]string) (Assembler, error) {
	templates := map[string]string{
		Summary:   defaultSummary,
		Chunk:     defaultChunk,
		Synthesis: defaultSynthesis,
	}

	if dir != "" {
		for name := range templates {
			data, err := os.ReadFile(filepath.Join(dir, name+".txt"))
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("read %s template: %w", name, err)
			}
			if !references(string(data), required[name]) {
				return nil, fmt.Errorf("%s template in %s lacks {%s}", name, dir, required[name])
			}
			templates[name] = string(data)
		}
	}

	kinds := defaultInstructions()
	for kind, text := range instructions {
		if text != "" {
			kinds[kind] = text
		}
	}

	return &implAssembler{templates: templates, instructions: kinds}, nil
}

// NewFromTemplates creates an Assembler with exactly the given templates.
func NewFromTemplates(templates map[string]string) Assembler {
	cp := make(map[string]string, len(templates))
	for k, v := range templates {
		cp[k] = v
	}
	return &implAssembler{templates: cp, instructions: defaultInstructions()}
}
