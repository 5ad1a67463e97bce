package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefebvre/repopulse/internal/domain"
	"github.com/mlefebvre/repopulse/internal/repository"
	"github.com/mlefebvre/repopulse/internal/testutil"
)

func newCLIApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &App{
		Projects: repository.NewSQLiteProjectRepo(db),
		Activity: repository.NewSQLiteActivityRepo(db),
		Reports:  repository.NewSQLiteReportRepo(db),
		Settings: repository.NewSQLiteSettingRepo(db),
	}
}

func TestResolveProject(t *testing.T) {
	app := newCLIApp(t)
	ctx := context.Background()

	traefik := testutil.NewTestProject("traefik")
	traefik.ID = "aaaa1111-0000-0000-0000-000000000000"
	caddy := testutil.NewTestProject("caddy")
	caddy.ID = "aaaa2222-0000-0000-0000-000000000000"
	for _, p := range []*domain.Project{traefik, caddy} {
		require.NoError(t, app.Projects.Create(ctx, p))
	}

	t.Run("by slug", func(t *testing.T) {
		p, err := resolveProject(ctx, app, "acme/traefik")
		require.NoError(t, err)
		assert.Equal(t, traefik.ID, p.ID)
	})

	t.Run("by name case-insensitive", func(t *testing.T) {
		p, err := resolveProject(ctx, app, "CADDY")
		require.NoError(t, err)
		assert.Equal(t, caddy.ID, p.ID)
	})

	t.Run("by full id", func(t *testing.T) {
		p, err := resolveProject(ctx, app, traefik.ID)
		require.NoError(t, err)
		assert.Equal(t, traefik.ID, p.ID)
	})

	t.Run("by id prefix", func(t *testing.T) {
		p, err := resolveProject(ctx, app, "aaaa1111")
		require.NoError(t, err)
		assert.Equal(t, traefik.ID, p.ID)
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		_, err := resolveProject(ctx, app, "aaaa")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ambiguous")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := resolveProject(ctx, app, "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := resolveProject(ctx, app, "")
		require.Error(t, err)
	})
}
