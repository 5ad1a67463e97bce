package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mlefebvre/repopulse/internal/domain"
	"github.com/mlefebvre/repopulse/internal/testutil"
)

func sampleBundle() Bundle {
	project := testutil.NewTestProject("traefik")
	reportDate := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	item := testutil.NewTestItem(project.ID, "Panic on reload",
		testutil.WithKind(domain.KindPullRequest),
		testutil.WithAuthor("hubot"),
		testutil.WithGitHubID(210),
		testutil.WithCreatedAt(time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)),
	)
	item.UpdatedAt = &updated

	return Bundle{
		Project: project,
		Reports: []*domain.Report{{
			ID:                "r1",
			ProjectID:         project.ID,
			Title:             "traefik Daily Report - 2026-08-31",
			Summary:           "First line.\nSecond line.",
			ReportType:        domain.ReportDaily,
			DetailLevel:       domain.DetailDetailed,
			ReportDate:        reportDate,
			IssuesCount:       2,
			DiscussionsCount:  1,
			PullRequestsCount: 3,
			CreatedAt:         reportDate,
		}},
		Items: []*domain.ActivityItem{item},
	}
}

func TestWriteReportsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportsCSV(&buf, sampleBundle()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"#", "Title", "Type", "Detail Level", "Report Date", "Issues", "Discussions", "Pull Requests", "Summary"}, rows[0])
	assert.Equal(t, []string{"1", "traefik Daily Report - 2026-08-31", "DAILY", "detailed", "31/08/26", "2", "1", "3", "First line. Second line."}, rows[1])
}

func TestWriteReportsCSV_EmptyStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportsCSV(&buf, Bundle{Project: testutil.NewTestProject("empty")}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteActivityCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteActivityCSV(&buf, sampleBundle()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "PULL_REQUEST", row[1])
	assert.Equal(t, "210", row[2])
	assert.Equal(t, "Panic on reload", row[3])
	assert.Equal(t, "hubot", row[4])
	assert.Equal(t, "29/08/26", row[5])
	assert.Equal(t, "30/08/26", row[6])
}

func TestWriteActivityCSV_MissingUpdatedAt(t *testing.T) {
	b := sampleBundle()
	b.Items[0].UpdatedAt = nil

	var buf bytes.Buffer
	require.NoError(t, WriteActivityCSV(&buf, b))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Empty(t, rows[1][6])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleBundle()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Overview", "Reports", "Activity"}, f.GetSheetList())

	title, err := f.GetCellValue("Reports", "B2")
	require.NoError(t, err)
	assert.Equal(t, "traefik Daily Report - 2026-08-31", title)

	kind, err := f.GetCellValue("Activity", "B2")
	require.NoError(t, err)
	assert.Equal(t, "PULL_REQUEST", kind)
}
