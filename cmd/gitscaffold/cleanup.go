package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/gitscaffold/matcher"
	"github.com/c360studio/gitscaffold/tracker"
)

func deleteClosedCmd(app *App) *cobra.Command {
	var (
		dryRun bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "delete-closed",
		Short: "Permanently delete all closed issues",
		Long: `Delete-closed removes every closed issue from the repository. Deletion
is permanent and cannot be undone; the command always lists the issues
and asks for confirmation unless --yes is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.trackerClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			snap, err := client.Snapshot(ctx)
			if err != nil {
				return err
			}

			var closed []tracker.Issue
			for _, is := range snap.Issues {
				if is.State == tracker.StateClosed {
					closed = append(closed, is)
				}
			}

			if len(closed) == 0 {
				fmt.Println("No closed issues.")
				return nil
			}

			for _, is := range closed {
				fmt.Printf("  #%d %s\n", is.Number, is.Title)
			}
			fmt.Printf("\n%d closed issue(s) in %s\n", len(closed), client.Repo())

			if dryRun {
				return nil
			}
			if !yes && !confirm(fmt.Sprintf("Permanently delete %d issue(s)?", len(closed))) {
				fmt.Println("Aborted.")
				return nil
			}

			deleted := 0
			for _, is := range closed {
				if err := client.DeleteIssue(ctx, is.Number); err != nil {
					app.logger.Warn("Delete failed", "number", is.Number, "error", err)
					continue
				}
				deleted++
			}

			fmt.Printf("Deleted %d issue(s)\n", deleted)
			if deleted < len(closed) {
				return fmt.Errorf("%d issue(s) could not be deleted", len(closed)-deleted)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List closed issues without deleting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// nearMinScore filters weak fuzzy matches from the near-duplicate report.
const nearMinScore = 0

func dedupeCmd(app *App) *cobra.Command {
	var (
		dryRun bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Close duplicate open issues",
		Long: `Dedupe finds open issues whose titles match after normalization and
closes the newer duplicates, keeping the oldest issue in each group.
Titles that fuzzily match without being exact duplicates are reported
for manual review and never closed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.trackerClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			snap, err := client.Snapshot(ctx)
			if err != nil {
				return err
			}

			groups := matcher.FindDuplicates(snap.Issues)
			near := matcher.Near(snap.Issues, nearMinScore)
			if len(groups) == 0 && len(near) == 0 {
				fmt.Println("No duplicates found.")
				return nil
			}

			total := 0
			for _, g := range groups {
				fmt.Printf("  keep #%d %s\n", g.Keep.Number, g.Keep.Title)
				for _, extra := range g.Extras {
					fmt.Printf("    close #%d %s\n", extra.Number, extra.Title)
					total++
				}
			}
			fmt.Printf("\n%d duplicate(s) across %d group(s)\n", total, len(groups))

			if len(near) > 0 {
				fmt.Println("\nPossible near duplicates (review manually, not closed):")
				for _, p := range near {
					fmt.Printf("  #%d %s ~ #%d %s\n", p.A.Number, p.A.Title, p.B.Number, p.B.Title)
				}
			}

			if total == 0 {
				return nil
			}

			if dryRun {
				return nil
			}
			if !yes && !confirm(fmt.Sprintf("Close %d duplicate issue(s)?", total)) {
				fmt.Println("Aborted.")
				return nil
			}

			closed := 0
			for _, g := range groups {
				for _, extra := range g.Extras {
					comment := fmt.Sprintf("Closing as duplicate of #%d", g.Keep.Number)
					if err := client.CloseIssue(ctx, extra.Number, comment); err != nil {
						app.logger.Warn("Close failed", "number", extra.Number, "error", err)
						continue
					}
					closed++
				}
			}

			fmt.Printf("Closed %d issue(s)\n", closed)
			if closed < total {
				return fmt.Errorf("%d issue(s) could not be closed", total-closed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List duplicates without closing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
