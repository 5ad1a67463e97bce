package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var githubURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// Project is a monitored GitHub repository.
type Project struct {
	ID           string
	Name         string
	Owner        string
	Repo         string
	URL          string
	Description  string
	IsActive     bool
	LastSyncAt   *time.Time
	ReportConfig *string // JSON override merged over defaults, nil = defaults
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks that the project has the fields required for syncing.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if p.Owner == "" || p.Repo == "" {
		return fmt.Errorf("project owner and repo are required")
	}
	return nil
}

// Slug returns the owner/repo pair used in GitHub API paths.
func (p *Project) Slug() string {
	return p.Owner + "/" + p.Repo
}

// ParseGitHubURL extracts the owner and repo from a github.com URL.
// Returns an error if the URL does not look like a repository URL.
func ParseGitHubURL(url string) (owner, repo string, err error) {
	m := githubURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", fmt.Errorf("not a GitHub repository URL: %q", url)
	}
	return m[1], strings.TrimSuffix(m[2], ".git"), nil
}
