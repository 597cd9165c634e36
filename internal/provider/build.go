package provider

import (
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/pkg/executor"
	"golang.org/x/time/rate"
)

// Build creates one Client per enabled provider, in priority order.
func Build(cfg *config.Config, exec executor.Executor, obs Observer, log logger.Logger) ([]*Client, error) {
	var clients []*Client
	for _, pc := range cfg.Providers {
		if pc.Disabled {
			continue
		}

		p, err := newProvider(pc, exec, log)
		if err != nil {
			return nil, err
		}

		limit := rate.Inf
		if cfg.Retry.RequestsPerSecond > 0 {
			limit = rate.Limit(cfg.Retry.RequestsPerSecond)
		}

		clients = append(clients, NewClient(p, ClientConfig{
			Model:          pc.Model,
			SynthesisModel: pc.SynthesisModel,
			Temperature:    pc.Temperature,
			MaxTokens:      pc.MaxTokens,
			Timeout:        pc.Timeout,
			MaxAttempts:    cfg.Retry.MaxAttempts,
			Delay:          cfg.Retry.Delay,
			Limiter:        rate.NewLimiter(limit, cfg.Retry.Burst),
			Observer:       obs,
		}, log))
	}

	if len(clients) == 0 {
		return nil, fmt.Errorf("no enabled providers")
	}
	return clients, nil
}

func newProvider(pc config.ProviderConfig, exec executor.Executor, log logger.Logger) (Provider, error) {
	switch pc.Type {
	case "ollama":
		return NewOllama(pc.Name, pc.BaseURL, &http.Client{}), nil
	case "openai":
		return NewOpenAI(pc.Name, pc.APIKey, pc.BaseURL), nil
	case "gemini":
		keys := pc.APIKeys
		if pc.APIKey != "" {
			keys = append([]string{pc.APIKey}, keys...)
		}
		return NewGemini(pc.Name, keys, log), nil
	case "command":
		return NewCommand(pc.Name, pc.Command, pc.Args, exec), nil
	default:
		return nil, fmt.Errorf("provider %s: unsupported type %q", pc.Name, pc.Type)
	}
}
