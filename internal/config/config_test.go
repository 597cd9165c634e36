package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := *Default()
	cfg.Paths = PathsConfig{
		Input:  "data/input",
		Output: "data/output",
	}
	cfg.Providers = []ProviderConfig{
		{Name: "local", Type: "ollama", Model: "llama3.1:8b"},
	}
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing paths",
			mutate:  func(c *Config) { c.Paths = PathsConfig{} },
			wantErr: true,
		},
		{
			name:    "overlap equal to chunk size",
			mutate:  func(c *Config) { c.Chunking.OverlapSize = c.Chunking.MaxChunkSize },
			wantErr: true,
		},
		{
			name:    "negative overlap",
			mutate:  func(c *Config) { c.Chunking.OverlapSize = -1 },
			wantErr: true,
		},
		{
			name:    "unknown context mode",
			mutate:  func(c *Config) { c.Chunking.ContextMode = "llm" },
			wantErr: true,
		},
		{
			name:    "no providers",
			mutate:  func(c *Config) { c.Providers = nil },
			wantErr: true,
		},
		{
			name: "all providers disabled",
			mutate: func(c *Config) {
				c.Providers[0].Disabled = true
			},
			wantErr: true,
		},
		{
			name: "unsupported provider type",
			mutate: func(c *Config) {
				c.Providers[0].Type = "claude"
			},
			wantErr: true,
		},
		{
			name: "command provider without command",
			mutate: func(c *Config) {
				c.Providers = []ProviderConfig{{Type: "command"}}
			},
			wantErr: true,
		},
		{
			name: "duplicate provider names",
			mutate: func(c *Config) {
				c.Providers = append(c.Providers, c.Providers[0])
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFillsProviderDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	p := cfg.Providers[0]
	if p.BaseURL != "http://localhost:11434" {
		t.Errorf("BaseURL = %q, want ollama default", p.BaseURL)
	}
	if p.Timeout != 120*time.Second {
		t.Errorf("Timeout = %v, want 120s", p.Timeout)
	}
	if p.Temperature != 0.1 {
		t.Errorf("Temperature = %v, want 0.1", p.Temperature)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("MINUTES_TEST_KEY", "secret-key")

	content := `
paths:
  input: "data/input"
  output: "data/output"

chunking:
  max_chunk_size: 2000
  overlap_size: 150

providers:
  - name: local
    type: ollama
    model: "llama3.1:8b"
    timeout: 30s
  - name: cloud
    type: gemini
    model: "gemini-2.5-flash"
    api_keys: ["${MINUTES_TEST_KEY}", "${MINUTES_UNSET_KEY}"]

retry:
  max_attempts: 4
  delay: 250ms

quality:
  retry_same_provider: false

meeting_types:
  review:
    label: Review
    title_keywords: [retro]
    phrases: ["went well"]
    max_participants: 12
    instructions: "Focus on improvements."

logging:
  level: "debug"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Chunking.MaxChunkSize != 2000 || cfg.Chunking.OverlapSize != 150 {
		t.Errorf("Chunking = %+v, want 2000/150", cfg.Chunking)
	}
	if cfg.Chunking.ContextLimit != 600 {
		t.Errorf("ContextLimit = %d, want default 600", cfg.Chunking.ContextLimit)
	}
	if len(cfg.Providers) != 2 {
		t.Fatalf("len(Providers) = %d, want 2", len(cfg.Providers))
	}
	if cfg.Providers[0].Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Providers[0].Timeout)
	}
	keys := cfg.Providers[1].APIKeys
	if len(keys) != 1 || keys[0] != "secret-key" {
		t.Errorf("APIKeys = %v, want [secret-key]", keys)
	}
	if cfg.Retry.MaxAttempts != 4 || cfg.Retry.Delay != 250*time.Millisecond {
		t.Errorf("Retry = %+v, want 4 attempts / 250ms", cfg.Retry)
	}
	if cfg.Quality.RetrySameProvider {
		t.Error("RetrySameProvider should be overridden to false")
	}
	if !cfg.Quality.Enabled {
		t.Error("Quality.Enabled should keep its default")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	review := cfg.MeetingTypes["review"]
	if review.Label != "Review" || len(review.TitleKeywords) != 1 || len(review.Phrases) != 1 ||
		review.MaxParticipants != 12 || review.Instructions != "Focus on improvements." {
		t.Errorf("MeetingTypes[review] = %+v", review)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/Zoom"); got != filepath.Join(home, "Zoom") {
		t.Errorf("expandHome(~/Zoom) = %q", got)
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome(/abs/path) = %q", got)
	}
}
