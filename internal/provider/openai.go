package provider

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type openaiProvider struct {
	name   string
	client *openai.Client
}

// NewOpenAI creates a Provider for the OpenAI chat API. baseURL may point at any
// compatible server, e.g. LM Studio or Ollama's /v1 endpoint.
func NewOpenAI(name, apiKey, baseURL string) Provider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &openaiProvider{
		name:   name,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (p *openaiProvider) Name() string {
	return p.name
}

func (p *openaiProvider) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
