package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefebvre/repopulse/internal/domain"
)

func TestExtractHighlights_CapsAndOrder(t *testing.T) {
	content := strings.Join([]string{
		"## Risk Assessment",
		"🟢 Good: CI green all week",
		"- 🔴 Critical: data loss on restart (#101)",
		"some prose",
		"* 🔴 Critical: auth bypass (#102)",
		"🟡 Warning: review backlog growing",
		"> 🔴 Critical: OOM under load (#103)",
		"🔴 Critical: fourth critical is dropped (#104)",
		"🟡 Warning: flaky e2e suite",
		"🟡 Warning: third warning is dropped",
		"🟢 Good: new contributor onboarded",
		"🟢 Good: third good is dropped",
	}, "\n")

	highlights := ExtractHighlights(content)
	require.Len(t, highlights, 7)

	// Critical first, in original order, capped at 3.
	assert.Equal(t, "🔴 Critical: data loss on restart (#101)", highlights[0])
	assert.Equal(t, "🔴 Critical: auth bypass (#102)", highlights[1])
	assert.Equal(t, "🔴 Critical: OOM under load (#103)", highlights[2])
	// Then warnings capped at 2, then positives capped at 2.
	assert.Equal(t, "🟡 Warning: review backlog growing", highlights[3])
	assert.Equal(t, "🟡 Warning: flaky e2e suite", highlights[4])
	assert.Equal(t, "🟢 Good: CI green all week", highlights[5])
	assert.Equal(t, "🟢 Good: new contributor onboarded", highlights[6])
}

func TestExtractHighlights_NoMarkers(t *testing.T) {
	assert.Empty(t, ExtractHighlights("Just a plain report.\nNothing flagged."))
	assert.Empty(t, ExtractHighlights(""))
}

func TestComputeMetrics_WindowsAndAuthors(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	item := func(kind domain.ActivityKind, author string, age time.Duration) *domain.ActivityItem {
		return &domain.ActivityItem{Kind: kind, Author: author, CreatedAt: now.Add(-age)}
	}

	issues := []*domain.ActivityItem{
		item(domain.KindIssue, "alice", 2*time.Hour),      // daily + weekly
		item(domain.KindIssue, "bob", 3*24*time.Hour),     // weekly only
		item(domain.KindIssue, "alice", 10*24*time.Hour),  // outside both windows
	}
	discussions := []*domain.ActivityItem{
		item(domain.KindDiscussion, "carol", 6*24*time.Hour), // weekly only
	}
	prs := []*domain.ActivityItem{
		item(domain.KindPullRequest, "bob", time.Hour), // daily + weekly
	}

	snapshot := &domain.StatsSnapshot{Stars: 50, Forks: 5, OpenIssues: 12, WeeklyCommits: 40}

	m := ComputeMetrics(now, issues, discussions, prs, snapshot)

	assert.Equal(t, domain.WindowCounts{Issues: 1, Discussions: 0, PullRequests: 1}, m.Daily)
	assert.Equal(t, domain.WindowCounts{Issues: 2, Discussions: 1, PullRequests: 1}, m.Weekly)
	assert.Equal(t, 3, m.UniqueAuthors)
	assert.Equal(t, 5, m.TotalActivity)
	require.NotNil(t, m.Repository)
	assert.Equal(t, 50, m.Repository.Stars)
	assert.Equal(t, 40, m.Repository.WeeklyCommits)

	// Deterministic for a fixed now.
	assert.Equal(t, m, ComputeMetrics(now, issues, discussions, prs, snapshot))
}

func TestComputeMetrics_NilSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	m := ComputeMetrics(now, nil, nil, nil, nil)
	assert.Nil(t, m.Repository)
	assert.Equal(t, 0, m.TotalActivity)
	assert.Equal(t, 0, m.UniqueAuthors)
}

func TestFallbackSummary(t *testing.T) {
	assert.Equal(t, "", FallbackSummary(""))

	short := "A quiet day with two issues closed."
	assert.Equal(t, short, FallbackSummary(short+"\n\nSecond paragraph is ignored."))

	long := strings.Repeat("a", 250) + "\n\nrest"
	got := FallbackSummary(long)
	assert.Equal(t, strings.Repeat("a", 200)+"...", got)
	assert.LessOrEqual(t, len([]rune(got)), 203)

	exact := strings.Repeat("b", 200)
	assert.Equal(t, exact, FallbackSummary(exact))
}
