package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/c360studio/gitscaffold/parser"
	"github.com/c360studio/gitscaffold/reconcile"
	"github.com/c360studio/gitscaffold/roadmap"
	"github.com/c360studio/gitscaffold/tracker/githubcli"
)

// watchDebounce coalesces editor save bursts into one sync run.
const watchDebounce = 500 * time.Millisecond

func syncCmd(app *App) *cobra.Command {
	var (
		dryRun bool
		yes    bool
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "sync [roadmap]",
		Short: "Reconcile a roadmap with the tracker and write back completions",
		Long: `Sync runs the full reconciliation loop: parse the roadmap, diff it
against the repository, create what is missing, and mark roadmap tasks
as completed when their tracker issue has been closed. Documents without
roadmap structure are handed to AI extraction (controlled by ai.fallback).

With --watch, sync re-runs whenever the roadmap file changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			client, err := app.trackerClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if !watch {
				return app.syncOnce(ctx, client, path, dryRun, yes)
			}

			// Watch mode resolves the path once so the watcher has a fixed
			// target, then applies without prompting on each change.
			_, resolved, err := app.loadRoadmap(path)
			if err != nil {
				return err
			}
			return app.syncWatch(ctx, client, resolved, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without changing anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run sync whenever the roadmap file changes")

	return cmd
}

func (a *App) syncOnce(ctx context.Context, client *githubcli.Client, path string, dryRun, yes bool) error {
	r, path, err := a.loadRoadmap(path)
	if err != nil {
		return err
	}

	// Structure-free documents go through the AI-extraction fallback. The
	// extracted roadmap is planned and applied but never written back: the
	// file on disk is not a structured roadmap to rewrite.
	extracted := false
	if r.IsEmpty() {
		r, err = a.extractFromFile(ctx, path)
		if err != nil {
			return err
		}
		if r == nil {
			fmt.Println("No structured roadmap found and AI extraction is disabled.")
			return nil
		}
		extracted = true
	}

	snap, err := client.Snapshot(ctx)
	if err != nil {
		return err
	}

	plan := reconcile.BuildPlan(r, snap)
	fmt.Printf("Roadmap %s against %s:\n\n", path, client.Repo())
	fmt.Print(renderPlan(plan, false))

	if !dryRun && len(plan.Creates()) > 0 {
		if !yes && !confirm(fmt.Sprintf("Create %d item(s) in %s?", len(plan.Creates()), client.Repo())) {
			fmt.Println("Aborted.")
			return nil
		}

		opts := []reconcile.ApplierOption{reconcile.WithLogger(a.logger)}
		if a.cfg.Sync.FailFast {
			opts = append(opts, reconcile.WithFailFast())
		}

		result, err := reconcile.NewApplier(client, opts...).Apply(ctx, plan)
		if result != nil {
			fmt.Print(renderResult(result))
		}
		if err != nil {
			return err
		}
		if result.Failed() {
			return fmt.Errorf("%d action(s) failed", len(result.Errors))
		}
	}

	if a.cfg.Sync.WriteBack && !dryRun && !extracted {
		return a.writeBack(ctx, client, r, path)
	}
	return nil
}

// writeBack marks roadmap tasks completed when their tracker issue is closed,
// rewriting the file only when something changed. Only markdown roadmaps are
// rewritten; structured files are left alone.
func (a *App) writeBack(ctx context.Context, client *githubcli.Client, r *roadmap.Roadmap, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".md" && ext != ".markdown" {
		return nil
	}

	// Re-fetch so issues closed since the pre-apply snapshot are seen.
	snap, err := client.Snapshot(ctx)
	if err != nil {
		return err
	}

	updated := reconcile.WriteBack(r, snap)
	if updated == 0 {
		return nil
	}

	out := parser.WriteMarkdown(r, a.cfg.Roadmap.MilestoneHeading)
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write roadmap: %w", err)
	}

	fmt.Printf("Marked %d task(s) completed in %s\n", updated, path)
	return nil
}

// syncWatch re-runs sync whenever the roadmap file is written. Events are
// debounced since editors emit several writes per save.
func (a *App) syncWatch(ctx context.Context, client *githubcli.Client, path string, dryRun bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save,
	// which drops a file-level watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	a.logger.Info("Watching roadmap", slog.String("path", path))

	if err := a.syncOnce(ctx, client, path, dryRun, true); err != nil {
		a.logger.Error("Sync failed", slog.String("error", err.Error()))
	}

	var timer *time.Timer
	runs := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("Watcher error", slog.String("error", err.Error()))

		case <-runs:
			a.logger.Info("Roadmap changed, re-syncing")
			if err := a.syncOnce(ctx, client, path, dryRun, true); err != nil {
				a.logger.Error("Sync failed", slog.String("error", err.Error()))
			}
		}
	}
}
