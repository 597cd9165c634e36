package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Stream || req.Model != "llama3" || req.Options.Temperature != 0.2 {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(ollamaResponse{Response: "summary of " + req.Prompt})
	}))
	defer srv.Close()

	p := NewOllama("local", srv.URL+"/", srv.Client())
	out, err := p.Generate(context.Background(), Request{Prompt: "x", Model: "llama3", Temperature: 0.2})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "summary of x" {
		t.Errorf("Generate() = %q", out)
	}
}

func TestClientServerErrorExhaustsAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(NewOllama("local", srv.URL, srv.Client()), ClientConfig{
		Model:       "llama3",
		MaxAttempts: 3,
		Delay:       time.Millisecond,
	}, logger.Nop())

	_, err := c.Generate(context.Background(), "prompt", StageSummary)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("Generate() error = %v, want ErrProviderUnavailable", err)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hit %d times, want 3", got)
	}
}

type scriptedProvider struct {
	mu      sync.Mutex
	outputs []string
	errs    []error
	calls   int
	reqs    []Request
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(ctx context.Context, req Request) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	p.calls++
	p.reqs = append(p.reqs, req)
	var err error
	if i < len(p.errs) {
		err = p.errs[i]
	}
	out := ""
	if i < len(p.outputs) {
		out = p.outputs[i]
	}
	return out, err
}

type recordingObserver struct {
	outcomes []string
}

func (o *recordingObserver) ObserveProviderRequest(provider, stage, outcome string, seconds float64) {
	o.outcomes = append(o.outcomes, outcome)
}

func TestClientRetries(t *testing.T) {
	tests := []struct {
		name      string
		provider  *scriptedProvider
		attempts  int
		want      string
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "success first try",
			provider:  &scriptedProvider{outputs: []string{"ok"}},
			attempts:  3,
			want:      "ok",
			wantCalls: 1,
		},
		{
			name:      "recovers after error",
			provider:  &scriptedProvider{outputs: []string{"", "done"}, errs: []error{errors.New("down")}},
			attempts:  3,
			want:      "done",
			wantCalls: 2,
		},
		{
			name:      "empty output is retried",
			provider:  &scriptedProvider{outputs: []string{"  ", "", "text"}},
			attempts:  3,
			want:      "text",
			wantCalls: 3,
		},
		{
			name:      "all empty",
			provider:  &scriptedProvider{},
			attempts:  2,
			wantErr:   true,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			c := NewClient(tt.provider, ClientConfig{Model: "m", MaxAttempts: tt.attempts, Observer: obs}, logger.Nop())

			got, err := c.Generate(context.Background(), "p", StageChunk)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Generate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrProviderUnavailable) {
				t.Errorf("error %v does not wrap ErrProviderUnavailable", err)
			}
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
			if tt.provider.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", tt.provider.calls, tt.wantCalls)
			}
			if len(obs.outcomes) != tt.wantCalls {
				t.Errorf("observer saw %d attempts, want %d", len(obs.outcomes), tt.wantCalls)
			}
		})
	}
}

func TestClientStopsOnCancel(t *testing.T) {
	p := &scriptedProvider{errs: []error{errors.New("down"), errors.New("down"), errors.New("down")}}
	c := NewClient(p, ClientConfig{MaxAttempts: 3, Delay: time.Hour}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := c.Generate(ctx, "p", StageChunk)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
	if p.calls != 1 {
		t.Errorf("calls = %d, want 1", p.calls)
	}
}

func TestClientModelPerStage(t *testing.T) {
	p := &scriptedProvider{outputs: []string{"a", "b"}}
	c := NewClient(p, ClientConfig{Model: "fast", SynthesisModel: "big", Temperature: 0.3, MaxTokens: 99}, logger.Nop())

	c.Generate(context.Background(), "p", StageChunk)
	c.Generate(context.Background(), "p", StageSynthesis)

	if p.reqs[0].Model != "fast" || p.reqs[1].Model != "big" {
		t.Errorf("models = %s, %s", p.reqs[0].Model, p.reqs[1].Model)
	}
	if p.reqs[0].Temperature != 0.3 || p.reqs[0].MaxTokens != 99 {
		t.Errorf("request = %+v", p.reqs[0])
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","model":"local","choices":[{"index":0,"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI("lmstudio", "unused", srv.URL+"/v1")
	out, err := p.Generate(context.Background(), Request{Prompt: "hi", Model: "local"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Generate() = %q", out)
	}
}

type fakeExecutor struct {
	name  string
	args  []string
	input string
	stdin bool
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.name, f.args = name, args
	return "inline", nil
}

func (f *fakeExecutor) ExecuteWithInput(ctx context.Context, input, name string, args ...string) (string, error) {
	f.name, f.args, f.input, f.stdin = name, args, input, true
	return "stdin", nil
}

func TestCommandProvider(t *testing.T) {
	t.Run("prompt on stdin", func(t *testing.T) {
		ex := &fakeExecutor{}
		p := NewCommand("cli", "llama-cli", []string{"-m", "{model}"}, ex)
		out, err := p.Generate(context.Background(), Request{Prompt: "summarize", Model: "q4.gguf"})
		if err != nil || out != "stdin" {
			t.Fatalf("Generate() = %q, %v", out, err)
		}
		if !ex.stdin || ex.input != "summarize" || ex.args[1] != "q4.gguf" {
			t.Errorf("executor saw %+v", ex)
		}
	})

	t.Run("prompt inline", func(t *testing.T) {
		ex := &fakeExecutor{}
		p := NewCommand("cli", "llm", []string{"-p", "{prompt}"}, ex)
		out, _ := p.Generate(context.Background(), Request{Prompt: "summarize"})
		if out != "inline" || ex.stdin || ex.args[1] != "summarize" {
			t.Errorf("executor saw %+v, out %q", ex, out)
		}
	})
}

func TestBuild(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.Input, cfg.Paths.Output = "in", "out"
	cfg.Providers = []config.ProviderConfig{
		{Name: "local", Type: "ollama", Model: "llama3"},
		{Name: "off", Type: "openai", Model: "gpt-4o-mini", Disabled: true},
		{Name: "cli", Type: "command", Command: "llama-cli"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	clients, err := Build(cfg, &fakeExecutor{}, nil, logger.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(clients) != 2 || clients[0].Name() != "local" || clients[1].Name() != "cli" {
		t.Errorf("clients = %v", clients)
	}
}
