package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths        PathsConfig                  `yaml:"paths"`
	Monitoring   MonitoringConfig             `yaml:"monitoring"`
	Chunking     ChunkingConfig               `yaml:"chunking"`
	Providers    []ProviderConfig             `yaml:"providers"`
	Retry        RetryConfig                  `yaml:"retry"`
	Quality      QualityConfig                `yaml:"quality"`
	MeetingTypes map[string]MeetingTypeConfig `yaml:"meeting_types"`
	Output       OutputConfig                 `yaml:"output"`
	Logging      LoggingConfig                `yaml:"logging"`
	Performance  PerformanceConfig            `yaml:"performance"`
	Server       ServerConfig                 `yaml:"server"`
	Events       EventsConfig                 `yaml:"events"`
}

type PathsConfig struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Prompts string `yaml:"prompts"`
}

type MonitoringConfig struct {
	TranscriptName string        `yaml:"transcript_name"`
	MinFileSize    int64         `yaml:"min_file_size"`
	StableTime     time.Duration `yaml:"stable_time"`
	ScanMaxAge     time.Duration `yaml:"scan_max_age"`
}

type ChunkingConfig struct {
	MaxChunkSize      int    `yaml:"max_chunk_size"`
	OverlapSize       int    `yaml:"overlap_size"`
	BoundaryTolerance int    `yaml:"boundary_tolerance"`
	ContextMode       string `yaml:"context_mode"`
	ContextLimit      int    `yaml:"context_limit"`
}

// ProviderConfig describes one text-generation backend. Order in the list is priority.
type ProviderConfig struct {
	Name           string        `yaml:"name"`
	Type           string        `yaml:"type"`
	Model          string        `yaml:"model"`
	SynthesisModel string        `yaml:"synthesis_model"`
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	APIKeys        []string      `yaml:"api_keys"`
	Command        string        `yaml:"command"`
	Args           []string      `yaml:"args"`
	Temperature    float64       `yaml:"temperature"`
	MaxTokens      int           `yaml:"max_tokens"`
	Timeout        time.Duration `yaml:"timeout"`
	Disabled       bool          `yaml:"disabled"`
}

type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	Delay             time.Duration `yaml:"delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

type QualityConfig struct {
	Enabled           bool          `yaml:"enabled"`
	MinSummaryLength  int           `yaml:"min_summary_length"`
	MinTechnicalTerms int           `yaml:"min_technical_terms"`
	MinActionItems    int           `yaml:"min_action_items"`
	MinScore          float64       `yaml:"min_score"`
	RetrySameProvider bool          `yaml:"retry_same_provider"`
	Weights           WeightsConfig `yaml:"weights"`
	TechnicalTerms    []string      `yaml:"technical_terms"`
	BusinessTerms     []string      `yaml:"business_terms"`
	ExpectedSections  []string      `yaml:"expected_sections"`
}

type WeightsConfig struct {
	TechnicalContent float64 `yaml:"technical_content"`
	ActionItems      float64 `yaml:"action_items"`
	BusinessContext  float64 `yaml:"business_context"`
	Clarity          float64 `yaml:"clarity"`
}

// MeetingTypeConfig tunes one meeting kind. Empty fields keep the built-in
// profile; a kind with no built-in profile is added.
type MeetingTypeConfig struct {
	Label           string   `yaml:"label"`
	TitleKeywords   []string `yaml:"title_keywords"`
	Keywords        []string `yaml:"keywords"`
	Phrases         []string `yaml:"phrases"`
	MinParticipants int      `yaml:"min_participants"`
	MaxParticipants int      `yaml:"max_participants"`
	Instructions    string   `yaml:"instructions"`
}

type OutputConfig struct {
	MetadataSidecar bool `yaml:"metadata_sidecar"`
	Docx            bool `yaml:"docx"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type EventsConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Load reads the YAML file at path, expands environment references and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.expand()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Default returns the values used for keys missing from the YAML file.
func Default() *Config {
	return &Config{
		Monitoring: MonitoringConfig{
			TranscriptName: "meeting_saved_closed_caption.txt",
			MinFileSize:    1024,
			StableTime:     2 * time.Second,
			ScanMaxAge:     24 * time.Hour,
		},
		Chunking: ChunkingConfig{
			MaxChunkSize: 3000,
			OverlapSize:  200,
			ContextMode:  "output",
			ContextLimit: 600,
		},
		Retry: RetryConfig{
			MaxAttempts:       3,
			Delay:             5 * time.Second,
			RequestsPerSecond: 1,
			Burst:             1,
		},
		Quality: QualityConfig{
			Enabled:           true,
			MinSummaryLength:  200,
			MinTechnicalTerms: 3,
			MinActionItems:    1,
			MinScore:          0.5,
			RetrySameProvider: true,
			Weights: WeightsConfig{
				TechnicalContent: 0.3,
				ActionItems:      0.3,
				BusinessContext:  0.2,
				Clarity:          0.2,
			},
		},
		Output: OutputConfig{
			MetadataSidecar: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Performance: PerformanceConfig{
			MaxConcurrent: 2,
		},
	}
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Chunking.MaxChunkSize <= 0 {
		return fmt.Errorf("chunking.max_chunk_size must be positive")
	}
	if c.Chunking.OverlapSize < 0 || c.Chunking.OverlapSize >= c.Chunking.MaxChunkSize {
		return fmt.Errorf("chunking.overlap_size must be in [0, max_chunk_size)")
	}
	switch c.Chunking.ContextMode {
	case "":
		c.Chunking.ContextMode = "output"
	case "output", "transcript":
	default:
		return fmt.Errorf("chunking.context_mode %q is not one of output, transcript", c.Chunking.ContextMode)
	}

	enabled := 0
	seen := make(map[string]bool)
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.Type == "" {
			return fmt.Errorf("providers[%d].type is required", i)
		}
		if p.Name == "" {
			p.Name = p.Type
		}
		if seen[p.Name] {
			return fmt.Errorf("providers[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true

		switch p.Type {
		case "ollama":
			if p.BaseURL == "" {
				p.BaseURL = "http://localhost:11434"
			}
		case "openai", "gemini":
		case "command":
			if p.Command == "" {
				return fmt.Errorf("providers[%d].command is required for type command", i)
			}
		default:
			return fmt.Errorf("providers[%d].type %q is not supported", i, p.Type)
		}
		if p.Type != "command" && p.Model == "" {
			return fmt.Errorf("providers[%d].model is required", i)
		}
		if p.Temperature == 0 {
			p.Temperature = 0.1
		}
		if p.Timeout == 0 {
			p.Timeout = 120 * time.Second
		}
		if !p.Disabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one enabled provider is required")
	}

	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 1
	}
	if c.Retry.Burst <= 0 {
		c.Retry.Burst = 1
	}
	if c.Chunking.ContextLimit <= 0 {
		c.Chunking.ContextLimit = 600
	}
	if c.Performance.MaxConcurrent <= 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Events.Enabled && c.Events.Topic == "" {
		c.Events.Topic = "minutes.summaries"
	}

	return nil
}

// expand resolves ${VAR} references in secrets and ~ in paths.
func (c *Config) expand() {
	c.Paths.Input = expandHome(c.Paths.Input)
	c.Paths.Output = expandHome(c.Paths.Output)
	c.Paths.Prompts = expandHome(c.Paths.Prompts)

	for i := range c.Providers {
		p := &c.Providers[i]
		p.APIKey = os.ExpandEnv(p.APIKey)
		p.BaseURL = os.ExpandEnv(p.BaseURL)
		keys := p.APIKeys[:0]
		for _, k := range p.APIKeys {
			if k = os.ExpandEnv(k); k != "" {
				keys = append(keys, k)
			}
		}
		p.APIKeys = keys
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
