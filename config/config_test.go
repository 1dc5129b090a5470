package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.AI.Model != "qwen2.5-coder:32b" {
		t.Errorf("expected default model qwen2.5-coder:32b, got %s", cfg.AI.Model)
	}
	if cfg.AI.Endpoint != "http://localhost:11434/v1" {
		t.Errorf("expected default endpoint http://localhost:11434/v1, got %s", cfg.AI.Endpoint)
	}
	if cfg.AI.Fallback != FallbackPrompt {
		t.Errorf("expected fallback prompt, got %s", cfg.AI.Fallback)
	}
	if cfg.Roadmap.MilestoneHeading != 2 {
		t.Errorf("expected milestone heading 2, got %d", cfg.Roadmap.MilestoneHeading)
	}
	if !cfg.Sync.WriteBack {
		t.Error("expected write-back enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "milestone heading too low",
			modify:  func(c *Config) { c.Roadmap.MilestoneHeading = 0 },
			wantErr: true,
		},
		{
			name:    "milestone heading too high",
			modify:  func(c *Config) { c.Roadmap.MilestoneHeading = 6 },
			wantErr: true,
		},
		{
			name:    "unknown fallback policy",
			modify:  func(c *Config) { c.AI.Fallback = "maybe" },
			wantErr: true,
		},
		{
			name:    "temperature too low",
			modify:  func(c *Config) { c.AI.Temperature = -0.1 },
			wantErr: true,
		},
		{
			name:    "temperature too high",
			modify:  func(c *Config) { c.AI.Temperature = 1.1 },
			wantErr: true,
		},
		{
			name:    "negative max tokens",
			modify:  func(c *Config) { c.AI.MaxTokens = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gitscaffold.yaml")

	content := `
repo:
  name: acme/widgets
roadmap:
  path: docs/ROADMAP.md
ai:
  provider: anthropic
  fallback: "off"
sync:
  fail_fast: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Repo.Name != "acme/widgets" {
		t.Errorf("expected repo acme/widgets, got %s", cfg.Repo.Name)
	}
	if cfg.Roadmap.Path != "docs/ROADMAP.md" {
		t.Errorf("expected roadmap path docs/ROADMAP.md, got %s", cfg.Roadmap.Path)
	}
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("expected provider anthropic, got %s", cfg.AI.Provider)
	}
	if cfg.AI.Fallback != FallbackOff {
		t.Errorf("expected fallback off, got %s", cfg.AI.Fallback)
	}
	if !cfg.Sync.FailFast {
		t.Error("expected fail_fast true")
	}

	// Unset fields keep their defaults.
	if cfg.AI.Model != "qwen2.5-coder:32b" {
		t.Errorf("expected default model preserved, got %s", cfg.AI.Model)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Repo.Name = "acme/widgets"

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.Repo.Name != "acme/widgets" {
		t.Errorf("expected repo acme/widgets, got %s", loaded.Repo.Name)
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()

	other := DefaultConfig()
	other.Repo.Name = "acme/widgets"
	other.AI.Provider = "openai"
	other.Roadmap.Globs = []string{"plan.md"}

	base.Merge(other)

	if base.Repo.Name != "acme/widgets" {
		t.Errorf("expected merged repo, got %s", base.Repo.Name)
	}
	if base.AI.Provider != "openai" {
		t.Errorf("expected merged provider, got %s", base.AI.Provider)
	}
	if len(base.Roadmap.Globs) != 1 || base.Roadmap.Globs[0] != "plan.md" {
		t.Errorf("expected merged globs, got %v", base.Roadmap.Globs)
	}
	// Defaults elsewhere survive the merge.
	if base.AI.Endpoint != "http://localhost:11434/v1" {
		t.Errorf("expected default endpoint preserved, got %s", base.AI.Endpoint)
	}

	base.Merge(nil) // no-op
	if base.Repo.Name != "acme/widgets" {
		t.Error("nil merge must not change anything")
	}
}
