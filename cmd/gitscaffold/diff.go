package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/gitscaffold/reconcile"
)

func diffCmd(app *App) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "diff [roadmap]",
		Short: "Show differences between a roadmap and the tracker",
		Long: `Diff compares the roadmap against the repository without changing
anything: items that would be created, items already in sync, and tracker
issues that no roadmap entry names.`,
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

			client, err := app.trackerClient()
			if err != nil {
				return err
			}

			snap, err := client.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			plan := reconcile.BuildPlan(r, snap)
			fmt.Printf("Roadmap %s against %s:\n\n", path, client.Repo())
			fmt.Print(renderPlan(plan, verbose))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also list items already in sync")

	return cmd
}
