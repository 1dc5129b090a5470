// Package githubcli implements the tracker interfaces over the GitHub CLI.
// All reads and writes shell out to gh, which owns authentication; the
// package never touches tokens itself.
package githubcli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/c360studio/gitscaffold/tracker"
)

// issueListLimit bounds one gh issue list call. Repositories larger than
// this need the REST pagination path instead.
const issueListLimit = 1000

// Client talks to one GitHub repository via the gh CLI. It implements
// tracker.Reader and tracker.Writer.
type Client struct {
	repo   string // owner/repo
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the given owner/repo.
func New(repo string, opts ...Option) (*Client, error) {
	if repo == "" || !strings.Contains(repo, "/") {
		return nil, fmt.Errorf("repository must be owner/repo, got %q", repo)
	}

	c := &Client{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Repo returns the owner/repo this client targets.
func (c *Client) Repo() string {
	return c.repo
}

// IsAvailable checks if the gh CLI is installed and authenticated.
func IsAvailable() bool {
	cmd := exec.Command("gh", "auth", "status")
	return cmd.Run() == nil
}

// DetectRepo returns the owner/repo of the repository at dir.
func DetectRepo(dir string) (string, error) {
	cmd := exec.Command("gh", "repo", "view", "--json", "nameWithOwner", "-q", ".nameWithOwner")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("detect repository: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ghIssue is the gh issue list JSON shape.
type ghIssue struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	Body      string `json:"body"`
	Labels    []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Assignees []struct {
		Login string `json:"login"`
	} `json:"assignees"`
	Milestone *struct {
		Title string `json:"title"`
	} `json:"milestone"`
}

// ghMilestone is the REST milestones JSON shape.
type ghMilestone struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	DueOn  string `json:"due_on"`
}

// Snapshot fetches all milestones and all issues, open and closed.
func (c *Client) Snapshot(ctx context.Context) (*tracker.Snapshot, error) {
	milestones, err := c.listMilestones(ctx)
	if err != nil {
		return nil, &tracker.SnapshotError{Repo: c.repo, Err: err}
	}

	issues, err := c.listIssues(ctx)
	if err != nil {
		return nil, &tracker.SnapshotError{Repo: c.repo, Err: err}
	}

	c.logger.Debug("Fetched tracker snapshot",
		"repo", c.repo,
		"milestones", len(milestones),
		"issues", len(issues))

	return &tracker.Snapshot{Milestones: milestones, Issues: issues}, nil
}

// listMilestones fetches all milestones via the REST API (gh has no native
// milestone command).
func (c *Client) listMilestones(ctx context.Context) ([]tracker.Milestone, error) {
	output, err := c.runGH(ctx,
		"api", fmt.Sprintf("repos/%s/milestones?state=all&per_page=100", c.repo), "--paginate")
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	return parseMilestones([]byte(output))
}

// listIssues fetches all issues, open and closed.
func (c *Client) listIssues(ctx context.Context) ([]tracker.Issue, error) {
	output, err := c.runGH(ctx,
		"issue", "list", "--repo", c.repo,
		"--state", "all",
		"--limit", strconv.Itoa(issueListLimit),
		"--json", "number,title,state,labels,assignees,milestone,body")
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return parseIssues([]byte(output))
}

// CreateMilestone creates a milestone and returns its number.
func (c *Client) CreateMilestone(ctx context.Context, name, dueDate string) (int, error) {
	args := []string{
		"api", fmt.Sprintf("repos/%s/milestones", c.repo),
		"-f", "title=" + name,
	}
	if dueDate != "" {
		// The REST API wants a full timestamp for due_on.
		args = append(args, "-f", "due_on="+dueDate+"T00:00:00Z")
	}

	output, err := c.runGH(ctx, args...)
	if err != nil {
		return 0, fmt.Errorf("create milestone %q: %w", name, err)
	}

	var created ghMilestone
	if err := json.Unmarshal([]byte(output), &created); err != nil {
		return 0, fmt.Errorf("create milestone %q: parse response: %w", name, err)
	}

	c.logger.Info("Created milestone", "repo", c.repo, "name", name, "number", created.Number)
	return created.Number, nil
}

// CreateIssue creates an issue and returns its number.
func (c *Client) CreateIssue(ctx context.Context, issue tracker.NewIssue) (int, error) {
	args := []string{"issue", "create", "--repo", c.repo, "--title", issue.Title, "--body", issue.Body}
	for _, label := range issue.Labels {
		args = append(args, "--label", label)
	}
	for _, assignee := range issue.Assignees {
		args = append(args, "--assignee", assignee)
	}
	if issue.Milestone != "" {
		args = append(args, "--milestone", issue.Milestone)
	}

	output, err := c.runGH(ctx, args...)
	if err != nil {
		return 0, fmt.Errorf("create issue %q: %w", issue.Title, err)
	}

	// gh prints the new issue URL; the number is its last path segment.
	url := strings.TrimSpace(output)
	number := extractIssueNumber(url)
	if number == 0 {
		return 0, fmt.Errorf("create issue %q: no issue number in %q", issue.Title, url)
	}

	c.logger.Info("Created issue", "repo", c.repo, "title", issue.Title, "number", number)
	return number, nil
}

// CloseIssue closes an issue, optionally with a comment.
func (c *Client) CloseIssue(ctx context.Context, number int, comment string) error {
	args := []string{"issue", "close", strconv.Itoa(number), "--repo", c.repo}
	if comment != "" {
		args = append(args, "--comment", comment)
	}
	if _, err := c.runGH(ctx, args...); err != nil {
		return fmt.Errorf("close issue #%d: %w", number, err)
	}
	return nil
}

// DeleteIssue permanently deletes an issue. Destructive: callers confirm
// before invoking.
func (c *Client) DeleteIssue(ctx context.Context, number int) error {
	if _, err := c.runGH(ctx, "issue", "delete", strconv.Itoa(number), "--repo", c.repo, "--yes"); err != nil {
		return fmt.Errorf("delete issue #%d: %w", number, err)
	}
	return nil
}

// EditIssueBody replaces an issue body.
func (c *Client) EditIssueBody(ctx context.Context, number int, body string) error {
	if _, err := c.runGH(ctx, "issue", "edit", strconv.Itoa(number), "--repo", c.repo, "--body", body); err != nil {
		return fmt.Errorf("edit issue #%d: %w", number, err)
	}
	return nil
}

// runGH executes a gh command.
func (c *Client) runGH(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "gh", args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// parseIssues converts gh issue list JSON into normalized records.
func parseIssues(data []byte) ([]tracker.Issue, error) {
	var raw []ghIssue
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse issue list: %w", err)
	}

	issues := make([]tracker.Issue, 0, len(raw))
	for _, gi := range raw {
		issue := tracker.Issue{
			Number: gi.Number,
			Title:  gi.Title,
			State:  tracker.State(strings.ToLower(gi.State)),
			Body:   gi.Body,
		}
		for _, l := range gi.Labels {
			issue.Labels = append(issue.Labels, l.Name)
		}
		for _, a := range gi.Assignees {
			issue.Assignees = append(issue.Assignees, a.Login)
		}
		if gi.Milestone != nil {
			issue.Milestone = gi.Milestone.Title
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// parseMilestones converts REST milestone JSON into normalized records.
// --paginate concatenates arrays, so decode sequentially.
func parseMilestones(data []byte) ([]tracker.Milestone, error) {
	var milestones []tracker.Milestone

	dec := json.NewDecoder(strings.NewReader(string(data)))
	for dec.More() {
		var page []ghMilestone
		if err := dec.Decode(&page); err != nil {
			return nil, fmt.Errorf("parse milestone list: %w", err)
		}
		for _, gm := range page {
			m := tracker.Milestone{
				Number: gm.Number,
				Name:   gm.Title,
				State:  tracker.State(strings.ToLower(gm.State)),
			}
			if len(gm.DueOn) >= 10 {
				m.DueDate = gm.DueOn[:10]
			}
			milestones = append(milestones, m)
		}
	}
	return milestones, nil
}

// extractIssueNumber extracts the issue number from a GitHub issue URL.
func extractIssueNumber(url string) int {
	parts := strings.Split(url, "/")
	if len(parts) == 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return 0
	}
	return n
}
