package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefebvre/repopulse/internal/testutil"
)

func TestSnapshotRepo_LatestAndLatestBefore(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	repo := NewSQLiteSnapshotRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("prometheus")
	require.NoError(t, projects.Create(ctx, proj))

	day1 := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{day1, day2, day3} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestSnapshot(proj.ID, at)))
	}

	latest, err := repo.Latest(ctx, proj.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.CapturedAt.Equal(day3))
	require.Len(t, latest.TopContributors, 1)
	assert.Equal(t, "octocat", latest.TopContributors[0].Login)

	previous, err := repo.LatestBefore(ctx, proj.ID, day3)
	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.True(t, previous.CapturedAt.Equal(day2))
}

func TestSnapshotRepo_AbsentReturnsNil(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	repo := NewSQLiteSnapshotRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("empty")
	require.NoError(t, projects.Create(ctx, proj))

	latest, err := repo.Latest(ctx, proj.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	previous, err := repo.LatestBefore(ctx, proj.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Nil(t, previous)
}
