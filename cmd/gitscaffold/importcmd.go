package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/gitscaffold/ai"
	"github.com/c360studio/gitscaffold/config"
	"github.com/c360studio/gitscaffold/parser"
	"github.com/c360studio/gitscaffold/reconcile"
	"github.com/c360studio/gitscaffold/roadmap"
	"github.com/c360studio/gitscaffold/weburl"
)

func importCmd(app *App) *cobra.Command {
	var (
		dryRun bool
		yes    bool
		enrich bool
	)

	cmd := &cobra.Command{
		Use:   "import <file-or-url>",
		Short: "Import issues from a document or web page",
		Long: `Import reads a local document or fetches an HTTPS URL, parses it as a
roadmap, and creates the resulting issues. Documents without roadmap
structure are handed to AI extraction when an LLM endpoint is configured
(controlled by ai.fallback: auto, prompt, or off).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			ctx := cmd.Context()

			var (
				name    string
				content []byte
			)
			if weburl.IsURL(source) {
				doc, err := weburl.NewFetcher().FetchMarkdown(ctx, source)
				if err != nil {
					return err
				}
				name = doc.Title
				if name == "" {
					name = source
				}
				content = []byte(doc.Markdown)
			} else {
				data, err := os.ReadFile(source)
				if err != nil {
					return fmt.Errorf("read document: %w", err)
				}
				name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
				content = data
			}

			r, err := parser.ParseFileLevel(name+".md", content, app.cfg.Roadmap.MilestoneHeading)
			if err != nil {
				return err
			}

			if r.IsEmpty() {
				r, err = app.extractRoadmap(ctx, name, string(content))
				if err != nil {
					return err
				}
				if r == nil {
					fmt.Println("No structured roadmap found and AI extraction is disabled.")
					return nil
				}
			}

			if err := roadmap.Validate(r); err != nil {
				return err
			}

			if enrich {
				if err := app.enrichFeatures(ctx, r); err != nil {
					return err
				}
			}

			client, err := app.trackerClient()
			if err != nil {
				return err
			}

			snap, err := client.Snapshot(ctx)
			if err != nil {
				return err
			}

			plan := reconcile.BuildPlan(r, snap)
			fmt.Printf("Import %s into %s:\n\n", source, client.Repo())
			fmt.Print(renderPlan(plan, false))

			if len(plan.Creates()) == 0 {
				fmt.Println("Nothing to create.")
				return nil
			}
			if dryRun {
				return nil
			}
			if !yes && !confirm(fmt.Sprintf("Create %d item(s) in %s?", len(plan.Creates()), client.Repo())) {
				fmt.Println("Aborted.")
				return nil
			}

			result, err := reconcile.NewApplier(client, reconcile.WithLogger(app.logger)).Apply(ctx, plan)
			if result != nil {
				fmt.Print(renderResult(result))
			}
			if err != nil {
				return err
			}
			if result.Failed() {
				return fmt.Errorf("%d action(s) failed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without creating anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&enrich, "enrich", false, "Generate detailed issue bodies with AI")

	return cmd
}

// extractRoadmap runs AI extraction over an unstructured document, honoring
// the configured fallback policy. Returns nil when extraction is declined.
func (a *App) extractRoadmap(ctx context.Context, name, text string) (*roadmap.Roadmap, error) {
	switch a.cfg.AI.Fallback {
	case config.FallbackOff:
		return nil, nil
	case config.FallbackPrompt:
		if !confirm("No roadmap structure found. Extract issues with AI?") {
			return nil, nil
		}
	}

	fmt.Printf("Extracting issues with %s/%s...\n", a.cfg.AI.Provider, a.cfg.AI.Model)
	candidates, err := a.extractor().Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("AI extraction found no issues")
	}
	fmt.Printf("Extracted %d issue(s)\n", len(candidates))

	return ai.Wrap(name, candidates), nil
}

// enrichFeatures fills in missing feature descriptions with generated bodies.
func (a *App) enrichFeatures(ctx context.Context, r *roadmap.Roadmap) error {
	enricher := ai.NewEnricher(a.llmClient())
	for i := range r.Features {
		f := &r.Features[i]
		body, err := enricher.Enrich(ctx, f.Title, f.Description, r.Description)
		if err != nil {
			return err
		}
		f.Description = body
		a.logger.Debug("Enriched feature", "title", f.Title)
	}
	return nil
}
