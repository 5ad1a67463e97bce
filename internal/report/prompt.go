package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mlefebvre/repopulse/internal/domain"
)

// Listing caps. Issues and pull requests come from preferences; the
// discussions cap is fixed.
const maxDiscussionsShown = 30

// bodyPreviewLen is the body truncation length in runes; longer bodies
// get an ellipsis marker appended.
const bodyPreviewLen = 200

const entryDateLayout = "2006-01-02"

// PromptInput bundles everything the prompt builder needs for one report.
type PromptInput struct {
	ProjectName  string
	Issues       []*domain.ActivityItem
	Discussions  []*domain.ActivityItem
	PullRequests []*domain.ActivityItem
	Current      *domain.StatsSnapshot
	Previous     *domain.StatsSnapshot
	ReportType   domain.ReportType
	DetailLevel  domain.DetailLevel
	Config       Config

	// Template, when non-empty, replaces the built-in prompt entirely.
	// Placeholders {projectName} {timeframe} {issueCount} {issues}
	// {discussionCount} {discussions} {prCount} {pullRequests} are
	// substituted literally, every occurrence.
	Template string
}

// BuildPrompt renders the natural-language prompt for one report. It is a
// pure function of its input.
func BuildPrompt(in PromptInput) string {
	timeframe := strings.ToLower(string(in.ReportType))

	if in.Template != "" {
		return ApplyTemplate(in.Template, []TemplateVar{
			{Name: "projectName", Value: in.ProjectName},
			{Name: "timeframe", Value: timeframe},
			{Name: "issueCount", Value: fmt.Sprintf("%d", len(in.Issues))},
			{Name: "issues", Value: renderListing(in.Issues, in.Config.Preferences.MaxIssuesShown)},
			{Name: "discussionCount", Value: fmt.Sprintf("%d", len(in.Discussions))},
			{Name: "discussions", Value: renderListing(in.Discussions, maxDiscussionsShown)},
			{Name: "prCount", Value: fmt.Sprintf("%d", len(in.PullRequests))},
			{Name: "pullRequests", Value: renderListing(in.PullRequests, in.Config.Preferences.MaxPRsShown)},
		})
	}

	if in.DetailLevel == domain.DetailSummary {
		return buildSummaryPrompt(in, timeframe)
	}
	return buildDetailedPrompt(in, timeframe)
}

func buildDetailedPrompt(in PromptInput, timeframe string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a comprehensive %s report for the GitHub project %q.\n\n", timeframe, in.ProjectName)
	b.WriteString("You are an expert GitHub project analyst. Your task is to analyze the following data and provide actionable insights with trend analysis, issue clustering, and impact assessment.\n")

	// Trend block only when both snapshots exist.
	if in.Current != nil && in.Previous != nil {
		b.WriteString("\n## Repository Trends:\n")
		fmt.Fprintf(&b, "- Stars: %d (%s)\n", in.Current.Stars, signed(in.Current.Stars-in.Previous.Stars))
		fmt.Fprintf(&b, "- Forks: %d (%s)\n", in.Current.Forks, signed(in.Current.Forks-in.Previous.Forks))
		fmt.Fprintf(&b, "- Open Issues: %d (%s)\n", in.Current.OpenIssues, signed(in.Current.OpenIssues-in.Previous.OpenIssues))
		fmt.Fprintf(&b, "- Weekly Activity: %d commits\n", in.Current.WeeklyCommits)
		if logins := contributorMentions(in.Current.TopContributors, 3); logins != "" {
			fmt.Fprintf(&b, "- Top Contributors: %s\n", logins)
		}
	}

	fmt.Fprintf(&b, "\n## Recent Issues (%d items):\n", len(in.Issues))
	b.WriteString(renderListing(in.Issues, in.Config.Preferences.MaxIssuesShown))

	fmt.Fprintf(&b, "\n## Recent Discussions (%d items):\n", len(in.Discussions))
	b.WriteString(renderListing(in.Discussions, maxDiscussionsShown))

	fmt.Fprintf(&b, "\n## Recent Pull Requests (%d items):\n", len(in.PullRequests))
	b.WriteString(renderListing(in.PullRequests, in.Config.Preferences.MaxPRsShown))

	b.WriteString("\n")
	b.WriteString(reportInstructions)
	b.WriteString("\n")

	if len(in.Config.CustomSections) > 0 {
		b.WriteString("\nAdditional Custom Sections to Include:\n")
		for _, s := range in.Config.CustomSections {
			fmt.Fprintf(&b, "- **%s**: %s\n", s.Title, s.Description)
			keywords := "None"
			if len(s.Keywords) > 0 {
				keywords = strings.Join(s.Keywords, ", ")
			}
			fmt.Fprintf(&b, "  Keywords to watch for: %s\n", keywords)
		}
	}

	if a := in.Config.Alerts; len(a.CriticalIssueKeywords) > 0 || len(a.SecurityKeywords) > 0 || len(a.PerformanceKeywords) > 0 || a.MinResponseTime > 0 {
		b.WriteString("\nAlert Criteria:\n")
		fmt.Fprintf(&b, "- Critical Issue Keywords: %s\n", strings.Join(a.CriticalIssueKeywords, ", "))
		fmt.Fprintf(&b, "- Security Keywords: %s\n", strings.Join(a.SecurityKeywords, ", "))
		fmt.Fprintf(&b, "- Performance Keywords: %s\n", strings.Join(a.PerformanceKeywords, ", "))
		if a.MinResponseTime > 0 {
			fmt.Fprintf(&b, "- Flag issues without response for more than %d hours\n", a.MinResponseTime)
		}
	}

	if areas := enabledFocusAreas(in.Config.FocusAreas); len(areas) > 0 {
		b.WriteString("\nFocus Areas (emphasize these aspects):\n")
		for _, area := range areas {
			fmt.Fprintf(&b, "- %s\n", area)
		}
	}

	return b.String()
}

func buildSummaryPrompt(in PromptInput, timeframe string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a concise %s executive summary for the GitHub project %q.\n\n", timeframe, in.ProjectName)

	if s := in.Current; s != nil {
		fmt.Fprintf(&b, "Repository: %d stars, %d forks, %d open issues, %d commits last week\n",
			s.Stars, s.Forks, s.OpenIssues, s.WeeklyCommits)
	}

	b.WriteString("Activity Summary:\n")
	fmt.Fprintf(&b, "- %d new/updated issues\n", len(in.Issues))
	fmt.Fprintf(&b, "- %d discussions\n", len(in.Discussions))
	fmt.Fprintf(&b, "- %d pull requests\n", len(in.PullRequests))

	b.WriteString("\n")
	b.WriteString(summaryInstructions)

	return b.String()
}

// renderListing renders up to max activity entries: title, author,
// date, and a truncated body preview.
func renderListing(items []*domain.ActivityItem, max int) string {
	if max <= 0 {
		max = len(items)
	}
	if len(items) > max {
		items = items[:max]
	}

	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "- **%s** by @%s (%s)\n", it.Title, it.Author, it.CreatedAt.Format(entryDateLayout))
		fmt.Fprintf(&b, "  %s\n", truncateBody(it.Body, bodyPreviewLen))
	}
	return b.String()
}

// truncateBody cuts a body to limit runes, appending an ellipsis marker
// only when something was cut.
func truncateBody(body string, limit int) string {
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit]) + "..."
}

// signed formats a delta with an explicit sign prefix for non-negative
// values.
func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func contributorMentions(contributors []domain.Contributor, max int) string {
	if len(contributors) > max {
		contributors = contributors[:max]
	}
	logins := make([]string, 0, len(contributors))
	for _, c := range contributors {
		logins = append(logins, "@"+c.Login)
	}
	return strings.Join(logins, ", ")
}

// enabledFocusAreas returns the enabled focus area names sorted for a
// deterministic prompt.
func enabledFocusAreas(areas map[string]bool) []string {
	var enabled []string
	for area, on := range areas {
		if on {
			enabled = append(enabled, area)
		}
	}
	sort.Strings(enabled)
	return enabled
}
