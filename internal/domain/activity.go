package domain

import "time"

// ActivityItem is a normalized GitHub issue, discussion, or pull request.
// Items are unique per (ProjectID, GitHubID, Kind); a sync that observes
// an already-known item refreshes Title, Body, UpdatedAt, and SyncedAt
// rather than creating a duplicate.
type ActivityItem struct {
	ID        string
	ProjectID string
	Kind      ActivityKind
	GitHubID  int64
	Title     string
	Body      string
	Author    string // "unknown" when GitHub reports no author
	URL       string
	CreatedAt time.Time
	UpdatedAt *time.Time
	SyncedAt  time.Time
}

// UnknownAuthor is stored when GitHub returns no author for an item.
const UnknownAuthor = "unknown"
