package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"google.golang.org/genai"
)

type geminiProvider struct {
	name    string
	apiKeys []string
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int
}

// NewGemini creates a Provider for the Gemini API. It rotates through apiKeys
// when a key is rate limited.
func NewGemini(name string, apiKeys []string, log logger.Logger) Provider {
	return &geminiProvider{
		name:    name,
		apiKeys: apiKeys,
		logger:  log,
	}
}

func (p *geminiProvider) Name() string {
	return p.name
}

func (p *geminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	if len(p.apiKeys) == 0 {
		return "", fmt.Errorf("no API keys configured")
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	var lastErr error
	for range len(p.apiKeys) {
		idx, key := p.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			p.rotateKey(idx)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), genCfg)
		if err != nil {
			if isQuotaError(err) {
				p.logger.Warn(ctx, "Gemini key %d rate limited, rotating", idx+1)
				p.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				text.WriteString(part.Text)
			}
			return text.String(), nil
		}
		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (p *geminiProvider) key() (int, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentKey, p.apiKeys[p.currentKey]
}

// rotateKey advances past idx unless another call already rotated.
func (p *geminiProvider) rotateKey(idx int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.currentKey == idx {
		p.currentKey = (p.currentKey + 1) % len(p.apiKeys)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
