// Package sync pulls activity from GitHub into local storage and
// triggers report generation when new data arrives.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mlefebvre/repopulse/internal/domain"
	"github.com/mlefebvre/repopulse/internal/github"
	"github.com/mlefebvre/repopulse/internal/report"
	"github.com/mlefebvre/repopulse/internal/repository"
)

// RepoFetcher is the GitHub capability the syncer needs; satisfied by
// *github.Client.
type RepoFetcher interface {
	ListIssues(ctx context.Context, owner, repo string, since *time.Time) ([]github.Issue, error)
	ListPullRequests(ctx context.Context, owner, repo string, since *time.Time) ([]github.PullRequest, error)
	ListDiscussions(ctx context.Context, owner, repo string) ([]github.Discussion, error)
	FetchStats(ctx context.Context, owner, repo string) (*github.RepoStats, error)
}

// ProjectResult summarizes one project's sync.
type ProjectResult struct {
	ProjectID       string `json:"projectId"`
	ProjectName     string `json:"projectName"`
	Synced          int    `json:"synced"`
	Created         int    `json:"created"`
	ReportGenerated bool   `json:"reportGenerated"`
	Err             error  `json:"-"`
}

// BatchResult summarizes a full sync run across projects.
type BatchResult struct {
	ProjectsProcessed int             `json:"projectsProcessed"`
	TotalSynced       int             `json:"totalSynced"`
	ReportsGenerated  int             `json:"reportsGenerated"`
	Projects          []ProjectResult `json:"projects"`
}

// Syncer fetches activity for monitored projects and upserts it.
type Syncer struct {
	fetcher   RepoFetcher
	projects  repository.ProjectRepo
	activity  repository.ActivityRepo
	snapshots repository.SnapshotRepo
	generator *report.Generator
	logger    *log.Logger
	now       func() time.Time
}

// NewSyncer wires a Syncer. generator may be nil to disable automatic
// report generation after sync. logger may be nil for the default logger.
func NewSyncer(
	fetcher RepoFetcher,
	projects repository.ProjectRepo,
	activity repository.ActivityRepo,
	snapshots repository.SnapshotRepo,
	generator *report.Generator,
	logger *log.Logger,
) *Syncer {
	if logger == nil {
		logger = log.Default()
	}
	return &Syncer{
		fetcher:   fetcher,
		projects:  projects,
		activity:  activity,
		snapshots: snapshots,
		generator: generator,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SyncAll syncs every active project. A project's failure is recorded in
// its ProjectResult and never aborts the remaining projects.
func (s *Syncer) SyncAll(ctx context.Context) (*BatchResult, error) {
	projects, err := s.projects.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("listing active projects: %w", err)
	}

	batch := &BatchResult{ProjectsProcessed: len(projects)}
	for _, p := range projects {
		res := s.SyncProject(ctx, p)
		if res.Err != nil {
			s.logger.Printf("sync failed for project %s: %v", p.Name, res.Err)
		}
		batch.TotalSynced += res.Synced
		if res.ReportGenerated {
			batch.ReportsGenerated++
		}
		batch.Projects = append(batch.Projects, res)
	}
	return batch, nil
}

// SyncProject fetches and stores activity for one project. The three
// feeds are fetched concurrently; per-item upsert failures are logged and
// skipped so one bad item cannot sink a sync.
func (s *Syncer) SyncProject(ctx context.Context, project *domain.Project) ProjectResult {
	res := ProjectResult{ProjectID: project.ID, ProjectName: project.Name}

	var (
		wg          sync.WaitGroup
		issues      []github.Issue
		prs         []github.PullRequest
		discussions []github.Discussion
		issuesErr   error
		prsErr      error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		issues, issuesErr = s.fetcher.ListIssues(ctx, project.Owner, project.Repo, project.LastSyncAt)
	}()
	go func() {
		defer wg.Done()
		prs, prsErr = s.fetcher.ListPullRequests(ctx, project.Owner, project.Repo, project.LastSyncAt)
	}()
	go func() {
		defer wg.Done()
		// Discussions degrade to empty when unavailable.
		discussions, _ = s.fetcher.ListDiscussions(ctx, project.Owner, project.Repo)
	}()
	wg.Wait()

	if issuesErr != nil {
		res.Err = fmt.Errorf("fetching issues: %w", issuesErr)
		return res
	}
	if prsErr != nil {
		res.Err = fmt.Errorf("fetching pull requests: %w", prsErr)
		return res
	}

	now := s.now()
	for _, issue := range issues {
		s.storeItem(ctx, &res, normalizeIssue(project.ID, issue, now))
	}
	for _, d := range discussions {
		s.storeItem(ctx, &res, normalizeDiscussion(project.ID, d, now))
	}
	for _, pr := range prs {
		s.storeItem(ctx, &res, normalizePullRequest(project.ID, pr, now))
	}

	s.captureSnapshot(ctx, project, now)

	if err := s.projects.TouchSync(ctx, project.ID, now); err != nil {
		s.logger.Printf("recording sync time for %s: %v", project.Name, err)
	}

	if res.Created > 0 && s.generator != nil {
		_, err := s.generator.Generate(ctx, project, domain.ReportDaily, domain.DetailDetailed)
		switch {
		case err == nil:
			res.ReportGenerated = true
		case errors.Is(err, report.ErrNoActivity):
			// Nothing in the daily window; fine.
		default:
			s.logger.Printf("generating report for %s: %v", project.Name, err)
		}
	}

	s.logger.Printf("synced %d items for project %s", res.Synced, project.Name)
	return res
}

func (s *Syncer) storeItem(ctx context.Context, res *ProjectResult, item *domain.ActivityItem) {
	created, err := s.activity.Upsert(ctx, item)
	if err != nil {
		s.logger.Printf("storing %s %d: %v", item.Kind, item.GitHubID, err)
		return
	}
	res.Synced++
	if created {
		res.Created++
	}
}

// captureSnapshot records the repository's current counters. Failure is
// non-fatal: reports simply render without trend data.
func (s *Syncer) captureSnapshot(ctx context.Context, project *domain.Project, now time.Time) {
	stats, err := s.fetcher.FetchStats(ctx, project.Owner, project.Repo)
	if err != nil {
		s.logger.Printf("fetching stats for %s: %v", project.Name, err)
		return
	}

	contributors := make([]domain.Contributor, 0, len(stats.TopContributors))
	for _, c := range stats.TopContributors {
		contributors = append(contributors, domain.Contributor{Login: c.Login, Contributions: c.Contributions})
	}
	snapshot := &domain.StatsSnapshot{
		ID:                uuid.New().String(),
		ProjectID:         project.ID,
		Stars:             stats.Stars,
		Forks:             stats.Forks,
		OpenIssues:        stats.OpenIssues,
		WeeklyCommits:     stats.WeeklyCommits,
		ContributorsCount: stats.ContributorsCount,
		TopContributors:   contributors,
		CapturedAt:        now,
	}
	if err := s.snapshots.Create(ctx, snapshot); err != nil {
		s.logger.Printf("storing snapshot for %s: %v", project.Name, err)
	}
}

func normalizeIssue(projectID string, issue github.Issue, now time.Time) *domain.ActivityItem {
	author := domain.UnknownAuthor
	if issue.User != nil && issue.User.Login != "" {
		author = issue.User.Login
	}
	return &domain.ActivityItem{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Kind:      domain.KindIssue,
		GitHubID:  issue.Number,
		Title:     issue.Title,
		Body:      issue.Body,
		Author:    author,
		URL:       issue.HTMLURL,
		CreatedAt: issue.CreatedAt,
		UpdatedAt: issue.UpdatedAt,
		SyncedAt:  now,
	}
}

func normalizeDiscussion(projectID string, d github.Discussion, now time.Time) *domain.ActivityItem {
	author := domain.UnknownAuthor
	if d.Author != nil && d.Author.Login != "" {
		author = d.Author.Login
	}
	return &domain.ActivityItem{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Kind:      domain.KindDiscussion,
		GitHubID:  d.Number,
		Title:     d.Title,
		Body:      d.Body,
		Author:    author,
		URL:       d.URL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		SyncedAt:  now,
	}
}

func normalizePullRequest(projectID string, pr github.PullRequest, now time.Time) *domain.ActivityItem {
	author := domain.UnknownAuthor
	if pr.User != nil && pr.User.Login != "" {
		author = pr.User.Login
	}
	return &domain.ActivityItem{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Kind:      domain.KindPullRequest,
		GitHubID:  pr.Number,
		Title:     pr.Title,
		Body:      pr.Body,
		Author:    author,
		URL:       pr.HTMLURL,
		CreatedAt: pr.CreatedAt,
		UpdatedAt: pr.UpdatedAt,
		SyncedAt:  now,
	}
}
