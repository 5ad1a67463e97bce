package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/mlefebvre/repopulse/internal/domain"
)

// Project options
type ProjectOption func(*domain.Project)

func WithLastSync(ts time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.LastSyncAt = &ts
	}
}

func WithReportConfig(raw string) ProjectOption {
	return func(p *domain.Project) {
		p.ReportConfig = &raw
	}
}

func WithInactive() ProjectOption {
	return func(p *domain.Project) {
		p.IsActive = false
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Owner:     "acme",
		Repo:      name,
		URL:       "https://github.com/acme/" + name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ActivityItem options
type ItemOption func(*domain.ActivityItem)

func WithKind(k domain.ActivityKind) ItemOption {
	return func(i *domain.ActivityItem) {
		i.Kind = k
	}
}

func WithAuthor(login string) ItemOption {
	return func(i *domain.ActivityItem) {
		i.Author = login
	}
}

func WithCreatedAt(ts time.Time) ItemOption {
	return func(i *domain.ActivityItem) {
		i.CreatedAt = ts
	}
}

func WithBody(body string) ItemOption {
	return func(i *domain.ActivityItem) {
		i.Body = body
	}
}

func WithGitHubID(id int64) ItemOption {
	return func(i *domain.ActivityItem) {
		i.GitHubID = id
	}
}

var testGitHubID int64

func NewTestItem(projectID, title string, opts ...ItemOption) *domain.ActivityItem {
	now := time.Now().UTC()
	testGitHubID++
	i := &domain.ActivityItem{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Kind:      domain.KindIssue,
		GitHubID:  testGitHubID,
		Title:     title,
		Author:    "octocat",
		URL:       "https://github.com/acme/repo/issues/1",
		CreatedAt: now,
		SyncedAt:  now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// NewTestSnapshot builds a stats snapshot with plausible counters.
func NewTestSnapshot(projectID string, capturedAt time.Time) *domain.StatsSnapshot {
	return &domain.StatsSnapshot{
		ID:                uuid.New().String(),
		ProjectID:         projectID,
		Stars:             120,
		Forks:             14,
		OpenIssues:        8,
		WeeklyCommits:     25,
		ContributorsCount: 6,
		TopContributors: []domain.Contributor{
			{Login: "octocat", Contributions: 42},
		},
		CapturedAt: capturedAt,
	}
}
