package report

import (
	"strings"
	"time"

	"github.com/mlefebvre/repopulse/internal/domain"
)

// highlightMarker couples a severity glyph the prompt asks the model to
// emit with the maximum number of lines extracted for it. The parser and
// the prompt share this contract; change it here only.
type highlightMarker struct {
	Glyph string
	Max   int
}

// highlightMarkers is ordered by priority: critical lines come first in
// the extracted highlights.
var highlightMarkers = []highlightMarker{
	{Glyph: "🔴", Max: 3},
	{Glyph: "🟡", Max: 2},
	{Glyph: "🟢", Max: 2},
}

// ExtractHighlights scans generated report text line by line for the
// severity marker glyphs and collects up to each marker's cap, critical
// first, preserving original line order within each severity.
func ExtractHighlights(content string) []string {
	lines := strings.Split(content, "\n")

	var highlights []string
	for _, marker := range highlightMarkers {
		count := 0
		for _, line := range lines {
			if count >= marker.Max {
				break
			}
			trimmed := strings.TrimLeft(line, " \t-*>")
			if strings.HasPrefix(trimmed, marker.Glyph) {
				highlights = append(highlights, strings.TrimSpace(trimmed))
				count++
			}
		}
	}
	return highlights
}

// ComputeMetrics derives engagement metrics purely from activity records
// and the optional stats snapshot, never from model output. The caller
// supplies now so the computation is deterministic.
func ComputeMetrics(now time.Time, issues, discussions, pullRequests []*domain.ActivityItem, snapshot *domain.StatsSnapshot) *domain.ReportMetrics {
	dayAgo := now.AddDate(0, 0, -1)
	weekAgo := now.AddDate(0, 0, -7)

	m := &domain.ReportMetrics{
		Daily: domain.WindowCounts{
			Issues:       countCreatedAfter(issues, dayAgo),
			Discussions:  countCreatedAfter(discussions, dayAgo),
			PullRequests: countCreatedAfter(pullRequests, dayAgo),
		},
		Weekly: domain.WindowCounts{
			Issues:       countCreatedAfter(issues, weekAgo),
			Discussions:  countCreatedAfter(discussions, weekAgo),
			PullRequests: countCreatedAfter(pullRequests, weekAgo),
		},
		TotalActivity: len(issues) + len(discussions) + len(pullRequests),
	}

	authors := make(map[string]struct{})
	for _, group := range [][]*domain.ActivityItem{issues, discussions, pullRequests} {
		for _, it := range group {
			authors[it.Author] = struct{}{}
		}
	}
	m.UniqueAuthors = len(authors)

	if snapshot != nil {
		m.Repository = &domain.RepositoryStats{
			Stars:         snapshot.Stars,
			Forks:         snapshot.Forks,
			OpenIssues:    snapshot.OpenIssues,
			WeeklyCommits: snapshot.WeeklyCommits,
		}
	}
	return m
}

func countCreatedAfter(items []*domain.ActivityItem, after time.Time) int {
	n := 0
	for _, it := range items {
		if it.CreatedAt.After(after) {
			n++
		}
	}
	return n
}

// fallbackSummaryLen is the rune cap applied to the deterministic summary
// fallback.
const fallbackSummaryLen = 200

// FallbackSummary derives a summary without a model call: the first
// paragraph of the content, truncated to 200 runes with an ellipsis if
// longer. It never fails, for any input.
func FallbackSummary(content string) string {
	firstParagraph, _, _ := strings.Cut(content, "\n\n")
	runes := []rune(firstParagraph)
	if len(runes) <= fallbackSummaryLen {
		return firstParagraph
	}
	return string(runes[:fallbackSummaryLen]) + "..."
}
