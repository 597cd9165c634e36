package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"golang.org/x/time/rate"
)

// ClientConfig controls retries and request parameters for one provider.
type ClientConfig struct {
	Model          string
	SynthesisModel string
	Temperature    float64
	MaxTokens      int
	Timeout        time.Duration
	MaxAttempts    int
	Delay          time.Duration
	Limiter        *rate.Limiter
	Observer       Observer
}

// Client retries a Provider and turns exhaustion into ErrProviderUnavailable.
type Client struct {
	p   Provider
	cfg ClientConfig
	log logger.Logger
}

// NewClient wraps p. A nil Limiter means no rate limit.
func NewClient(p Provider, cfg ClientConfig, log logger.Logger) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Limiter == nil {
		cfg.Limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Client{p: p, cfg: cfg, log: log}
}

func (c *Client) Name() string {
	return c.p.Name()
}

// Model returns the model used for stage.
func (c *Client) Model(stage string) string {
	if stage == StageSynthesis && c.cfg.SynthesisModel != "" {
		return c.cfg.SynthesisModel
	}
	return c.cfg.Model
}

// Generate sends prompt, retrying up to MaxAttempts times with a fixed delay.
// Empty output counts as a failed attempt.
func (c *Client) Generate(ctx context.Context, prompt, stage string) (string, error) {
	req := Request{
		Prompt:      prompt,
		Model:       c.Model(stage),
		Stage:       stage,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.cfg.Delay):
			}
		}

		if err := c.cfg.Limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		out, err := c.attempt(ctx, req)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		lastErr = err
		c.log.Warn(ctx, "%s attempt %d/%d failed: %v", c.p.Name(), attempt, c.cfg.MaxAttempts, err)
	}

	return "", fmt.Errorf("%w: %s after %d attempts: %w", ErrProviderUnavailable, c.p.Name(), c.cfg.MaxAttempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, req Request) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := c.p.Generate(ctx, req)
	out = strings.TrimSpace(out)
	if err == nil && out == "" {
		err = errEmptyOutput
	}

	if c.cfg.Observer != nil {
		outcome := "success"
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			outcome = "timeout"
		case err != nil:
			outcome = "error"
		}
		c.cfg.Observer.ObserveProviderRequest(c.p.Name(), req.Stage, outcome, time.Since(start).Seconds())
	}
	return out, err
}

var errEmptyOutput = errors.New("empty output")
