package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/c360studio/gitscaffold/reconcile"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00BFFF"))

	createStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	skipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD93D"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))
)

// renderPlan formats a change plan for terminal display.
func renderPlan(plan *reconcile.Plan, verbose bool) string {
	var b strings.Builder

	var creates, skips int
	for _, action := range plan.Actions {
		switch action.Kind {
		case reconcile.ActionCreateMilestone:
			creates++
			b.WriteString(createStyle.Render("  + milestone "+action.Milestone.Name) + "\n")
		case reconcile.ActionCreateIssue:
			creates++
			line := "  + issue     " + action.Issue.Title
			if action.Issue.Milestone != "" {
				line += skipStyle.Render("  (" + action.Issue.Milestone + ")")
			}
			b.WriteString(createStyle.Render(line) + "\n")
		case reconcile.ActionNoOp:
			skips++
			if verbose {
				b.WriteString(skipStyle.Render(fmt.Sprintf("  = %s (%s)", noOpTitle(action), action.Reason)) + "\n")
			}
		}
	}

	local := plan.LocalOnly()
	if len(local) > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("\n  %d issue(s) exist on GitHub but not in the roadmap:", len(local))) + "\n")
		for _, is := range local {
			b.WriteString(warnStyle.Render(fmt.Sprintf("  ? #%d %s (%s)", is.Number, is.Title, is.State)) + "\n")
		}
	}

	summary := fmt.Sprintf("\n%d to create, %d up to date, %d untracked\n", creates, skips, len(local))
	b.WriteString(headerStyle.Render(summary))

	return b.String()
}

func noOpTitle(action reconcile.Action) string {
	if action.Milestone != nil {
		return "milestone " + action.Milestone.Name
	}
	if action.Issue != nil {
		return "issue " + action.Issue.Title
	}
	return "?"
}

// renderResult summarizes an apply run.
func renderResult(result *reconcile.Result) string {
	var b strings.Builder

	if len(result.Milestones) > 0 {
		b.WriteString(fmt.Sprintf("Created %d milestone(s)\n", len(result.Milestones)))
	}
	if len(result.Issues) > 0 {
		b.WriteString(fmt.Sprintf("Created %d issue(s)\n", len(result.Issues)))
	}

	for _, applyErr := range result.Errors {
		if applyErr.Blocked {
			b.WriteString(errorStyle.Render(fmt.Sprintf("blocked: %s (%v)", applyErr.Title, applyErr.Err)) + "\n")
		} else {
			b.WriteString(errorStyle.Render(fmt.Sprintf("failed: %s (%v)", applyErr.Title, applyErr.Err)) + "\n")
		}
	}

	return b.String()
}
