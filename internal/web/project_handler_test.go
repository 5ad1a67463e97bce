package web

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefebvre/repopulse/internal/testutil"
)

func TestProjectCreate(t *testing.T) {
	env := newWebEnv(t, nil, "")

	resp := env.do(t, fiber.MethodPost, "/api/v1/projects", fiber.Map{
		"url": "https://github.com/traefik/traefik",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created projectResponse
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "traefik", created.Name)
	assert.Equal(t, "traefik", created.Owner)
	assert.Equal(t, "traefik", created.Repo)
	assert.True(t, created.IsActive)
	assert.Zero(t, created.ItemCount)

	// Same repo again conflicts regardless of the chosen display name.
	resp = env.do(t, fiber.MethodPost, "/api/v1/projects", fiber.Map{
		"url":  "https://github.com/traefik/traefik",
		"name": "proxy",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestProjectCreate_BadURL(t *testing.T) {
	env := newWebEnv(t, nil, "")

	resp := env.do(t, fiber.MethodPost, "/api/v1/projects", fiber.Map{
		"url": "https://gitlab.com/acme/thing",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProjectList_ActiveFilter(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	require.NoError(t, env.projects.Create(ctx, testutil.NewTestProject("alpha")))
	require.NoError(t, env.projects.Create(ctx, testutil.NewTestProject("beta", testutil.WithInactive())))

	var all []projectResponse
	resp := env.do(t, fiber.MethodGet, "/api/v1/projects", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &all)
	assert.Len(t, all, 2)

	var active []projectResponse
	resp = env.do(t, fiber.MethodGet, "/api/v1/projects?active=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &active)
	require.Len(t, active, 1)
	assert.Equal(t, "alpha", active[0].Name)
}

func TestProjectGet_CountsItems(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))
	for i := 0; i < 3; i++ {
		_, err := env.activity.Upsert(ctx, testutil.NewTestItem(project.ID, "item"))
		require.NoError(t, err)
	}

	resp := env.do(t, fiber.MethodGet, "/api/v1/projects/"+project.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got projectResponse
	decodeBody(t, resp, &got)
	assert.Equal(t, 3, got.ItemCount)
}

func TestProjectGet_NotFound(t *testing.T) {
	env := newWebEnv(t, nil, "")

	resp := env.do(t, fiber.MethodGet, "/api/v1/projects/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjectUpdate(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))

	resp := env.do(t, fiber.MethodPut, "/api/v1/projects/"+project.ID, fiber.Map{
		"name":     "edge proxy",
		"isActive": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got projectResponse
	decodeBody(t, resp, &got)
	assert.Equal(t, "edge proxy", got.Name)
	assert.False(t, got.IsActive)

	// Fields absent from the body stay untouched.
	reloaded, err := env.projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "edge proxy", reloaded.Name)
	assert.Equal(t, "traefik", reloaded.Repo)
}

func TestProjectDelete(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))

	resp := env.do(t, fiber.MethodDelete, "/api/v1/projects/"+project.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/v1/projects/"+project.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjectConfig_Roundtrip(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))

	resp := env.do(t, fiber.MethodPut, "/api/v1/projects/"+project.ID+"/config", fiber.Map{
		"preferences": fiber.Map{"maxIssuesShown": 5},
		"focusAreas":  fiber.Map{"documentation": true},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	type configView struct {
		Effective struct {
			FocusAreas  map[string]bool `json:"focusAreas"`
			Preferences struct {
				MaxIssuesShown int `json:"maxIssuesShown"`
				MaxPRsShown    int `json:"maxPRsShown"`
			} `json:"preferences"`
		} `json:"effective"`
		Override map[string]any `json:"override"`
	}

	var put configView
	decodeBody(t, resp, &put)
	assert.Equal(t, 5, put.Effective.Preferences.MaxIssuesShown)
	assert.True(t, put.Effective.FocusAreas["documentation"])
	// Untouched sections keep their defaults.
	assert.Equal(t, 30, put.Effective.Preferences.MaxPRsShown)
	assert.True(t, put.Effective.FocusAreas["issues"])
	assert.Contains(t, put.Override, "preferences")

	resp = env.do(t, fiber.MethodGet, "/api/v1/projects/"+project.ID+"/config", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got configView
	decodeBody(t, resp, &got)
	assert.Equal(t, 5, got.Effective.Preferences.MaxIssuesShown)
	assert.NotNil(t, got.Override)
}

func TestProjectConfig_DefaultsWithoutOverride(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))

	resp := env.do(t, fiber.MethodGet, "/api/v1/projects/"+project.ID+"/config", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	decodeBody(t, resp, &got)
	assert.Contains(t, got, "effective")
	assert.NotContains(t, got, "override")
}

func TestProjectConfig_RejectsNonObject(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))

	resp := env.do(t, fiber.MethodPut, "/api/v1/projects/"+project.ID+"/config", []string{"nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
