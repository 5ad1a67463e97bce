package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/mlefebvre/repopulse/internal/github"
	"github.com/mlefebvre/repopulse/internal/llm"
	"github.com/mlefebvre/repopulse/internal/report"
	"github.com/mlefebvre/repopulse/internal/repository"
	"github.com/mlefebvre/repopulse/internal/sync"
	"github.com/mlefebvre/repopulse/internal/testutil"
)

// stubClient scripts the model adapter for handler tests.
type stubClient struct {
	text string
	err  error
}

func (s *stubClient) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Text: s.text, Model: "stub"}, nil
}

// emptyFetcher is a RepoFetcher with nothing to report.
type emptyFetcher struct{}

func (emptyFetcher) ListIssues(context.Context, string, string, *time.Time) ([]github.Issue, error) {
	return nil, nil
}

func (emptyFetcher) ListPullRequests(context.Context, string, string, *time.Time) ([]github.PullRequest, error) {
	return nil, nil
}

func (emptyFetcher) ListDiscussions(context.Context, string, string) ([]github.Discussion, error) {
	return nil, nil
}

func (emptyFetcher) FetchStats(context.Context, string, string) (*github.RepoStats, error) {
	return &github.RepoStats{}, nil
}

type webEnv struct {
	app       *fiber.App
	projects  *repository.SQLiteProjectRepo
	activity  *repository.SQLiteActivityRepo
	reports   *repository.SQLiteReportRepo
	settings  *repository.SQLiteSettingRepo
	snapshots *repository.SQLiteSnapshotRepo
}

func newWebEnv(t *testing.T, client llm.Client, cronSecret string) *webEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	env := &webEnv{
		projects:  repository.NewSQLiteProjectRepo(db),
		activity:  repository.NewSQLiteActivityRepo(db),
		reports:   repository.NewSQLiteReportRepo(db),
		settings:  repository.NewSQLiteSettingRepo(db),
		snapshots: repository.NewSQLiteSnapshotRepo(db),
	}
	logger := log.New(io.Discard, "", 0)

	if client == nil {
		client = &stubClient{text: "Nothing remarkable today."}
	}
	generator := report.NewGenerator(env.activity, env.reports, env.snapshots, env.settings, client, logger)
	syncer := sync.NewSyncer(emptyFetcher{}, env.projects, env.activity, env.snapshots, nil, logger)

	env.app = NewApp(Deps{
		Projects:   env.projects,
		Activity:   env.activity,
		Reports:    env.reports,
		Settings:   env.settings,
		Generator:  generator,
		Syncer:     syncer,
		Resolver:   llm.NewCredentialResolver(env.settings),
		CronSecret: cronSecret,
		Logger:     logger,
	})
	return env
}

// do performs a request against the in-memory app with an optional JSON
// body.
func (e *webEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := e.app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
