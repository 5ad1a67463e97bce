package domain

import "time"

// StatsSnapshot is a point-in-time capture of repository-level counters,
// taken during sync and used for trend computation between reports.
type StatsSnapshot struct {
	ID                string
	ProjectID         string
	Stars             int
	Forks             int
	OpenIssues        int
	WeeklyCommits     int
	ContributorsCount int
	TopContributors   []Contributor
	CapturedAt        time.Time
}

// Contributor is a repository contributor entry within a snapshot.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}
