// Package config provides file-based configuration for Parley applications.
// Configuration is a YAML document with typed sections; environment
// variables override the LLM credentials so secrets can stay out of the
// file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LLMConfig holds completion-provider settings.
type LLMConfig struct {
	// Model is the model identifier used for completions.
	Model string `yaml:"model"`

	// BaseURL points at an OpenAI-compatible endpoint. Empty uses the
	// provider default.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against the provider. OPENAI_API_KEY overrides.
	APIKey string `yaml:"api_key"`

	// SummarizationModel optionally runs summarization on a different
	// (typically cheaper) model. Empty uses Model.
	SummarizationModel string `yaml:"summarization_model"`
}

// ChatConfig holds orchestration and summarization-policy settings.
type ChatConfig struct {
	// AutoSummarize toggles the summarization policy. Nil means enabled.
	AutoSummarize *bool `yaml:"auto_summarize"`

	// SummarizationThreshold is the turn count a thread must exceed before
	// summarization triggers. Zero uses the default (15).
	SummarizationThreshold int `yaml:"summarization_threshold"`

	// RecentTurnsToKeep is how many trailing turns stay unsummarized.
	// Zero uses the default (10).
	RecentTurnsToKeep int `yaml:"recent_turns_to_keep"`

	// MaxContextTurns bounds the raw turns sent to the provider.
	// Zero uses the default (10).
	MaxContextTurns int `yaml:"max_context_turns"`

	// Instructions is the system instruction text sent with each request.
	Instructions string `yaml:"instructions"`
}

// StorageConfig holds thread persistence settings.
type StorageConfig struct {
	// HistoryDir enables file-backed thread persistence when set. Threads
	// are stored as one JSON document each and reloaded at startup.
	HistoryDir string `yaml:"history_dir"`
}

// TriageConfig holds routing settings for the triage pipeline.
type TriageConfig struct {
	// Enabled toggles the triage path in applications that support it.
	Enabled bool `yaml:"enabled"`

	// FallbackAgent is the registry name tried when routing cannot
	// resolve a specific agent.
	FallbackAgent string `yaml:"fallback_agent"`
}

// Config is the root configuration document.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Chat    ChatConfig    `yaml:"chat"`
	Storage StorageConfig `yaml:"storage"`
	Triage  TriageConfig  `yaml:"triage"`
}

// DefaultPath returns the default configuration file location,
// ~/.parley/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".parley", "config.yaml"), nil
}

// Load reads the configuration at path, then applies environment overrides.
// A missing file is not an error: it yields a zero config with only the
// environment applied, so applications run unconfigured-but-functional with
// just OPENAI_API_KEY set. path == "" uses DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename).
// path == "" uses DefaultPath.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// applyEnv overlays environment variables onto the loaded values.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("PARLEY_MODEL"); v != "" {
		c.LLM.Model = v
	}
}

// AutoSummarizeEnabled resolves the nullable AutoSummarize toggle.
func (c *ChatConfig) AutoSummarizeEnabled() bool {
	if c.AutoSummarize == nil {
		return true
	}
	return *c.AutoSummarize
}
