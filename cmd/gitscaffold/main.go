// Package main provides the gitscaffold binary entry point.
// Gitscaffold converts declarative roadmap documents into GitHub milestones
// and issues, keeping the roadmap and the tracker in sync.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	// Register LLM providers via init()
	_ "github.com/c360studio/gitscaffold/llm/providers"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "gitscaffold"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Convert roadmap documents into GitHub milestones and issues",
		Long: `Gitscaffold reads a declarative roadmap (Markdown, YAML, or JSON) and
reconciles it against a GitHub repository: milestones and issues named in
the roadmap are created, existing open issues are left alone, and tracker
items missing from the roadmap are reported.

Free-form markdown without roadmap structure can be converted with AI
extraction when an LLM endpoint is configured.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&app.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&app.repoOverride, "repo", "", "Target repository (owner/repo, auto-detected if empty)")
	pf.StringVar(&app.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		createCmd(app),
		syncCmd(app),
		diffCmd(app),
		importCmd(app),
		initCmd(app),
		deleteClosedCmd(app),
		dedupeCmd(app),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
