package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefebvre/repopulse/internal/llm"
	"github.com/mlefebvre/repopulse/internal/testutil"
)

func TestGenerateReport_NoActivity(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))

	resp := env.do(t, fiber.MethodPost, "/api/v1/projects/"+project.ID+"/reports", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGenerateReport_Success(t *testing.T) {
	env := newWebEnv(t, &stubClient{text: "🔴 Reload panic needs attention\nSteady week otherwise."}, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))
	_, err := env.activity.Upsert(ctx, testutil.NewTestItem(project.ID, "Panic on reload"))
	require.NoError(t, err)

	resp := env.do(t, fiber.MethodPost, "/api/v1/projects/"+project.ID+"/reports", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created reportResponse
	decodeBody(t, resp, &created)
	assert.Equal(t, "DAILY", string(created.ReportType))
	assert.Equal(t, "detailed", string(created.DetailLevel))
	assert.Contains(t, created.Content, "Reload panic")
	assert.Contains(t, created.Highlights, "🔴 Reload panic needs attention")
	assert.Equal(t, 1, created.IssuesCount)

	// Listings omit the full content.
	resp = env.do(t, fiber.MethodGet, "/api/v1/reports", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []reportResponse
	decodeBody(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].Content)

	// Fetching by ID includes it again.
	resp = env.do(t, fiber.MethodGet, "/api/v1/reports/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched reportResponse
	decodeBody(t, resp, &fetched)
	assert.Contains(t, fetched.Content, "Reload panic")
}

func TestGenerateReport_InvalidType(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))

	resp := env.do(t, fiber.MethodPost, "/api/v1/projects/"+project.ID+"/reports", fiber.Map{
		"type": "HOURLY",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, fiber.MethodPost, "/api/v1/projects/"+project.ID+"/reports", fiber.Map{
		"detailLevel": "verbose",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateReport_CredentialMissing(t *testing.T) {
	missing := fmt.Errorf("%w for provider openai: configure it in Settings", llm.ErrCredentialMissing)
	env := newWebEnv(t, &stubClient{err: missing}, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))
	_, err := env.activity.Upsert(ctx, testutil.NewTestItem(project.ID, "Needs a key"))
	require.NoError(t, err)

	resp := env.do(t, fiber.MethodPost, "/api/v1/projects/"+project.ID+"/reports", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateReport_UpstreamFailureIsOpaque(t *testing.T) {
	failed := fmt.Errorf("%w: openai", llm.ErrGenerationFailed)
	env := newWebEnv(t, &stubClient{err: failed}, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))
	_, err := env.activity.Upsert(ctx, testutil.NewTestItem(project.ID, "Still fails"))
	require.NoError(t, err)

	resp := env.do(t, fiber.MethodPost, "/api/v1/projects/"+project.ID+"/reports", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGenerateReport_ProjectNotFound(t *testing.T) {
	env := newWebEnv(t, nil, "")

	resp := env.do(t, fiber.MethodPost, "/api/v1/projects/nope/reports", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExport_CSV(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))
	_, err := env.activity.Upsert(ctx, testutil.NewTestItem(project.ID, "Exported row"))
	require.NoError(t, err)

	resp := env.do(t, fiber.MethodGet, "/api/v1/projects/"+project.ID+"/export?format=csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))
	disposition := resp.Header.Get(fiber.HeaderContentDisposition)
	assert.True(t, strings.HasPrefix(disposition, "attachment; filename=traefik_"), disposition)
	assert.True(t, strings.HasSuffix(disposition, ".csv"), disposition)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, body)
}

func TestExport_XLSX(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))

	resp := env.do(t, fiber.MethodGet, "/api/v1/projects/"+project.ID+"/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "spreadsheetml")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	// XLSX is a zip archive.
	require.Greater(t, len(body), 4)
	assert.Equal(t, "PK", string(body[:2]))
}

func TestExport_UnknownFormat(t *testing.T) {
	env := newWebEnv(t, nil, "")
	ctx := context.Background()

	project := testutil.NewTestProject("traefik")
	require.NoError(t, env.projects.Create(ctx, project))

	resp := env.do(t, fiber.MethodGet, "/api/v1/projects/"+project.ID+"/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
