package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/gitscaffold/reconcile"
)

func createCmd(app *App) *cobra.Command {
	var (
		dryRun   bool
		yes      bool
		failFast bool
		enrich   bool
	)

	cmd := &cobra.Command{
		Use:   "create [roadmap]",
		Short: "Create milestones and issues from a roadmap",
		Long: `Create reads a roadmap document, diffs it against the target repository,
and creates the missing milestones and issues. Existing open issues with
matching titles are left untouched. Documents without roadmap structure
are handed to AI extraction (controlled by ai.fallback: auto, prompt, or
off).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			r, path, err := app.loadRoadmap(path)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if r.IsEmpty() {
				r, err = app.extractFromFile(ctx, path)
				if err != nil {
					return err
				}
				if r == nil {
					fmt.Println("No structured roadmap found and AI extraction is disabled.")
					return nil
				}
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
			fmt.Printf("Roadmap %s against %s:\n\n", path, client.Repo())
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

			opts := []reconcile.ApplierOption{reconcile.WithLogger(app.logger)}
			if failFast || app.cfg.Sync.FailFast {
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
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without creating anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failed action")
	cmd.Flags().BoolVar(&enrich, "enrich", false, "Generate detailed issue bodies with AI")

	return cmd
}
