package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefebvre/repopulse/internal/domain"
	"github.com/mlefebvre/repopulse/internal/testutil"
)

func newStoredReport(projectID, title string, date time.Time) *domain.Report {
	return &domain.Report{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Title:       title,
		Content:     "## Overview\nQuiet day.",
		Summary:     "Quiet day.",
		Highlights:  []string{"🔴 Critical: build broken on main"},
		ReportType:  domain.ReportDaily,
		DetailLevel: domain.DetailDetailed,
		ReportDate:  date,
		IssuesCount: 2,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestReportRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	repo := NewSQLiteReportRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("nats")
	require.NoError(t, projects.Create(ctx, proj))

	rep := newStoredReport(proj.ID, "nats Daily Report - 2026-08-30", time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	rep.Metrics = &domain.ReportMetrics{
		Daily:         domain.WindowCounts{Issues: 2},
		UniqueAuthors: 3,
		TotalActivity: 2,
		Repository:    &domain.RepositoryStats{Stars: 9000},
	}
	require.NoError(t, repo.Create(ctx, rep))

	fetched, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.Title, fetched.Title)
	assert.Equal(t, rep.Content, fetched.Content)
	assert.Equal(t, []string{"🔴 Critical: build broken on main"}, fetched.Highlights)
	require.NotNil(t, fetched.Metrics)
	assert.Equal(t, 2, fetched.Metrics.Daily.Issues)
	assert.Equal(t, 3, fetched.Metrics.UniqueAuthors)
	require.NotNil(t, fetched.Metrics.Repository)
	assert.Equal(t, 9000, fetched.Metrics.Repository.Stars)
}

func TestReportRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteReportRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportRepo_ListByProject_NewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	repo := NewSQLiteReportRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("dgraph")
	require.NoError(t, projects.Create(ctx, proj))

	older := newStoredReport(proj.ID, "older", time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	newer := newStoredReport(proj.ID, "newer", time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	reports, err := repo.ListByProject(ctx, proj.ID, 10)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "newer", reports[0].Title)
	assert.Equal(t, "older", reports[1].Title)

	limited, err := repo.ListByProject(ctx, proj.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestReportRepo_NilMetricsRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	repo := NewSQLiteReportRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("vector")
	require.NoError(t, projects.Create(ctx, proj))

	rep := newStoredReport(proj.ID, "no metrics", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))
	rep.Metrics = nil
	rep.Highlights = nil
	require.NoError(t, repo.Create(ctx, rep))

	fetched, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.Metrics)
	assert.Empty(t, fetched.Highlights)
}
