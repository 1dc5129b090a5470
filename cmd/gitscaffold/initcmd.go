package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const roadmapTemplate = `# Project Roadmap

A short description of the project and where it is heading.

## Milestone 1: Foundations (due: 2026-10-01)

### Set up repository

Initial scaffolding for the project.

Labels: chore

- [ ] Create repository layout
- [ ] Add CI pipeline
- [ ] Write contributing guide

### Core data model

- [ ] Define schema
- [ ] Add validation

## Milestone 2: First Release (due: 2026-12-01)

### Public API

Labels: feature
Assignees: your-github-login

- [ ] Design endpoints
- [ ] Implement handlers
- [ ] Document usage
`

func initCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a starter roadmap file",
		Long: `Init writes a template ROADMAP.md demonstrating the roadmap grammar:
milestones with due dates, features with labels and assignees, and task
checklists. Edit it, then run "gitscaffold sync".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "ROADMAP.md"
			if len(args) > 0 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := os.WriteFile(path, []byte(roadmapTemplate), 0644); err != nil {
				return fmt.Errorf("write template: %w", err)
			}

			fmt.Printf("Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
