package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360studio/gitscaffold/ai"
	"github.com/c360studio/gitscaffold/config"
	"github.com/c360studio/gitscaffold/llm"
	"github.com/c360studio/gitscaffold/parser"
	"github.com/c360studio/gitscaffold/roadmap"
	"github.com/c360studio/gitscaffold/tracker/githubcli"
)

// App carries configuration and shared state across subcommands.
type App struct {
	configPath   string
	repoOverride string
	logLevel     string

	cfg    *config.Config
	logger *slog.Logger
}

// init loads configuration and sets up logging. Called by the root command's
// PersistentPreRunE so every subcommand sees a ready App.
func (a *App) init() error {
	level := parseLogLevel(a.logLevel)
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	if a.configPath != "" {
		cfg, err := config.LoadFromFile(a.configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		a.cfg = cfg
	} else {
		cfg, err := config.NewLoader(a.logger).Load()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	if a.repoOverride != "" {
		a.cfg.Repo.Name = a.repoOverride
	}

	return nil
}

// trackerClient builds the gh-backed tracker client for the configured repo.
func (a *App) trackerClient() (*githubcli.Client, error) {
	if !githubcli.IsAvailable() {
		return nil, fmt.Errorf("gh CLI is not available or not authenticated (run: gh auth login)")
	}
	if a.cfg.Repo.Name == "" {
		return nil, fmt.Errorf("no repository configured (use --repo or set repo.name in %s)", config.ProjectConfigFile)
	}
	return githubcli.New(a.cfg.Repo.Name, githubcli.WithLogger(a.logger))
}

// loadRoadmap resolves, reads, parses, and validates a roadmap document.
// An empty path triggers glob discovery from the current directory.
func (a *App) loadRoadmap(path string) (*roadmap.Roadmap, string, error) {
	if path == "" {
		path = a.cfg.Roadmap.Path
	}
	if path == "" {
		globs := a.cfg.Roadmap.Globs
		if len(globs) == 0 {
			globs = roadmap.DefaultGlobs
		}
		found, err := roadmap.Discover(".", globs)
		if err != nil {
			return nil, "", err
		}
		path = found
		a.logger.Debug("Discovered roadmap", slog.String("path", path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read roadmap: %w", err)
	}

	r, err := parser.ParseFileLevel(path, content, a.cfg.Roadmap.MilestoneHeading)
	if err != nil {
		return nil, "", err
	}

	if err := roadmap.Validate(r); err != nil {
		return nil, "", err
	}

	return r, path, nil
}

// extractFromFile runs the AI-extraction fallback over a roadmap file that
// parsed to no structure. Returns nil when extraction is declined or
// disabled by the fallback policy.
func (a *App) extractFromFile(ctx context.Context, path string) (*roadmap.Roadmap, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roadmap: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	r, err := a.extractRoadmap(ctx, name, string(content))
	if err != nil || r == nil {
		return nil, err
	}
	if err := roadmap.Validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

// llmClient builds the AI completion client from configuration.
func (a *App) llmClient() *llm.Client {
	return llm.NewClient([]llm.Endpoint{
		{
			Provider: a.cfg.AI.Provider,
			Model:    a.cfg.AI.Model,
			URL:      a.cfg.AI.Endpoint,
		},
	}, llm.WithLogger(a.logger))
}

// extractor builds the AI extractor from configuration.
func (a *App) extractor() *ai.Extractor {
	return ai.NewExtractor(a.llmClient(),
		ai.WithTemperature(a.cfg.AI.Temperature),
		ai.WithMaxTokens(a.cfg.AI.MaxTokens))
}

// confirm prompts the user with a yes/no question. Returns true only for an
// explicit yes.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
