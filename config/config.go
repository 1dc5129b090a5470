// Package config provides configuration loading and management for gitscaffold.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Fallback policies for free-form documents that yield no structured roadmap.
const (
	FallbackAuto   = "auto"   // extract with AI without asking
	FallbackPrompt = "prompt" // ask before calling the model
	FallbackOff    = "off"    // never call the model
)

// Config represents the complete gitscaffold configuration
type Config struct {
	Repo    RepoConfig    `yaml:"repo"`
	Roadmap RoadmapConfig `yaml:"roadmap"`
	AI      AIConfig      `yaml:"ai"`
	Sync    SyncConfig    `yaml:"sync"`
}

// RepoConfig configures the target GitHub repository
type RepoConfig struct {
	// Name is the repository in owner/repo form (auto-detected via gh if empty)
	Name string `yaml:"name"`
}

// RoadmapConfig configures roadmap discovery and parsing
type RoadmapConfig struct {
	// Path is an explicit roadmap file (overrides glob discovery)
	Path string `yaml:"path"`
	// Globs are the discovery patterns, tried in order
	Globs []string `yaml:"globs"`
	// MilestoneHeading is the markdown heading level for milestones (default: 2)
	MilestoneHeading int `yaml:"milestone_heading"`
}

// AIConfig configures the extraction and enrichment model
type AIConfig struct {
	// Provider selects the LLM provider ("ollama", "openai", "anthropic")
	Provider string `yaml:"provider"`
	// Model is the model name (e.g., "qwen2.5-coder:32b")
	Model string `yaml:"model"`
	// Endpoint is the API endpoint (default: http://localhost:11434/v1)
	Endpoint string `yaml:"endpoint"`
	// Fallback controls AI extraction when a document has no structure:
	// "auto", "prompt", or "off"
	Fallback string `yaml:"fallback"`
	// Temperature controls randomness (0.0-1.0)
	Temperature float64 `yaml:"temperature"`
	// MaxTokens caps response length
	MaxTokens int `yaml:"max_tokens"`
}

// SyncConfig configures plan application behavior
type SyncConfig struct {
	// FailFast stops applying on the first error instead of continuing
	FailFast bool `yaml:"fail_fast"`
	// WriteBack updates completed checkboxes in the roadmap after sync
	WriteBack bool `yaml:"write_back"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Repo: RepoConfig{
			Name: "", // Auto-detect
		},
		Roadmap: RoadmapConfig{
			Globs:            nil, // roadmap.DefaultGlobs
			MilestoneHeading: 2,
		},
		AI: AIConfig{
			Provider:    "ollama",
			Model:       "qwen2.5-coder:32b",
			Endpoint:    "http://localhost:11434/v1",
			Fallback:    FallbackPrompt,
			Temperature: 0.5,
			MaxTokens:   4096,
		},
		Sync: SyncConfig{
			FailFast:  false,
			WriteBack: true,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Roadmap.MilestoneHeading < 1 || c.Roadmap.MilestoneHeading > 5 {
		return fmt.Errorf("roadmap.milestone_heading must be between 1 and 5")
	}
	switch c.AI.Fallback {
	case FallbackAuto, FallbackPrompt, FallbackOff:
	default:
		return fmt.Errorf("ai.fallback must be %q, %q, or %q", FallbackAuto, FallbackPrompt, FallbackOff)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 1 {
		return fmt.Errorf("ai.temperature must be between 0 and 1")
	}
	if c.AI.MaxTokens < 0 {
		return fmt.Errorf("ai.max_tokens must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Repo
	if other.Repo.Name != "" {
		c.Repo.Name = other.Repo.Name
	}

	// Roadmap
	if other.Roadmap.Path != "" {
		c.Roadmap.Path = other.Roadmap.Path
	}
	if len(other.Roadmap.Globs) > 0 {
		c.Roadmap.Globs = other.Roadmap.Globs
	}
	if other.Roadmap.MilestoneHeading != 0 {
		c.Roadmap.MilestoneHeading = other.Roadmap.MilestoneHeading
	}

	// AI
	if other.AI.Provider != "" {
		c.AI.Provider = other.AI.Provider
	}
	if other.AI.Model != "" {
		c.AI.Model = other.AI.Model
	}
	if other.AI.Endpoint != "" {
		c.AI.Endpoint = other.AI.Endpoint
	}
	if other.AI.Fallback != "" {
		c.AI.Fallback = other.AI.Fallback
	}
	if other.AI.Temperature != 0 {
		c.AI.Temperature = other.AI.Temperature
	}
	if other.AI.MaxTokens != 0 {
		c.AI.MaxTokens = other.AI.MaxTokens
	}

	// Sync: LoadFromFile seeds defaults before unmarshaling, so these carry
	// either the file's value or the default and can be copied wholesale.
	c.Sync = other.Sync
}
