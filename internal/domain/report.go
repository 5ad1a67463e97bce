package domain

import "time"

// Report is a persisted generated report. Reports are append-only and
// immutable after creation; the denormalized counts support fast listing
// without loading activity rows.
type Report struct {
	ID                string
	ProjectID         string
	Title             string
	Content           string // full markdown text from the model
	Summary           string // 2-3 sentence derived summary
	Highlights        []string
	Metrics           *ReportMetrics
	ReportType        ReportType
	DetailLevel       DetailLevel
	ReportDate        time.Time
	IssuesCount       int
	DiscussionsCount  int
	PullRequestsCount int
	CreatedAt         time.Time
}

// ReportMetrics holds numeric engagement metrics computed from activity
// records, never from model output.
type ReportMetrics struct {
	Daily         WindowCounts     `json:"daily"`
	Weekly        WindowCounts     `json:"weekly"`
	UniqueAuthors int              `json:"uniqueAuthors"`
	TotalActivity int              `json:"totalActivity"`
	Repository    *RepositoryStats `json:"repository,omitempty"`
}

// WindowCounts are per-kind counts of items created within a time window.
type WindowCounts struct {
	Issues       int `json:"issues"`
	Discussions  int `json:"discussions"`
	PullRequests int `json:"pullRequests"`
}

// RepositoryStats echoes a stats snapshot into report metrics.
type RepositoryStats struct {
	Stars         int `json:"stars"`
	Forks         int `json:"forks"`
	OpenIssues    int `json:"openIssues"`
	WeeklyCommits int `json:"weeklyCommits"`
}
