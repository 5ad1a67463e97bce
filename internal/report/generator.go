package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mlefebvre/repopulse/internal/domain"
	"github.com/mlefebvre/repopulse/internal/llm"
	"github.com/mlefebvre/repopulse/internal/repository"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNoActivity indicates the report window contained no activity. No
// model call is made and nothing is persisted; this is an expected
// outcome, not a failure.
var ErrNoActivity = errors.New("no recent activity found for report generation")

// Setting keys operators may use to override the built-in prompt
// templates. Placeholders are substituted per ApplyTemplate.
const (
	SettingReportTemplate  = "REPORT_PROMPT_TEMPLATE"
	SettingSummaryTemplate = "SUMMARY_PROMPT_TEMPLATE"
)

// Token ceilings by detail level for the main content call.
const (
	summaryMaxTokens  = 1000
	detailedMaxTokens = 3000
)

// Generator coordinates the report pipeline for a single project and time
// window: fetch activity, resolve config, build the prompt, invoke the
// model, post-process, persist.
type Generator struct {
	activity  repository.ActivityRepo
	reports   repository.ReportRepo
	snapshots repository.SnapshotRepo
	settings  repository.SettingRepo
	client    llm.Client
	logger    *log.Logger
	now       func() time.Time
}

// NewGenerator wires a Generator. settings may be nil, which disables
// template overrides. logger may be nil to use the default logger.
func NewGenerator(
	activity repository.ActivityRepo,
	reports repository.ReportRepo,
	snapshots repository.SnapshotRepo,
	settings repository.SettingRepo,
	client llm.Client,
	logger *log.Logger,
) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		activity:  activity,
		reports:   reports,
		snapshots: snapshots,
		settings:  settings,
		client:    client,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var titleCaser = cases.Title(language.English)

// Generate runs the pipeline once and persists the resulting report.
// Returns ErrNoActivity when the window is empty.
func (g *Generator) Generate(ctx context.Context, project *domain.Project, reportType domain.ReportType, detailLevel domain.DetailLevel) (*domain.Report, error) {
	now := g.now()
	start := windowStart(now, reportType)

	items, err := g.activity.ListSince(ctx, project.ID, start)
	if err != nil {
		return nil, fmt.Errorf("fetching activity: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoActivity
	}

	issues, discussions, pullRequests := partition(items)

	override := ""
	if project.ReportConfig != nil {
		override = *project.ReportConfig
	}
	cfg, cfgErr := MergeConfig(override, DefaultConfig())
	if cfgErr != nil {
		g.logger.Printf("project %s: %v; using default report config", project.ID, cfgErr)
	}

	current, previous := g.fetchSnapshots(ctx, project.ID, start)

	prompt := BuildPrompt(PromptInput{
		ProjectName:  project.Name,
		Issues:       issues,
		Discussions:  discussions,
		PullRequests: pullRequests,
		Current:      current,
		Previous:     previous,
		ReportType:   reportType,
		DetailLevel:  detailLevel,
		Config:       cfg,
		Template:     g.storedTemplate(ctx, SettingReportTemplate),
	})

	maxTokens := detailedMaxTokens
	if detailLevel == domain.DetailSummary {
		maxTokens = summaryMaxTokens
	}
	resp, err := g.client.Complete(ctx, llm.CompletionRequest{
		Task:      llm.TaskReport,
		Prompt:    prompt,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		ID:                uuid.New().String(),
		ProjectID:         project.ID,
		Title:             reportTitle(project.Name, reportType, detailLevel, now),
		Content:           resp.Text,
		Summary:           g.summarize(ctx, resp.Text),
		Highlights:        ExtractHighlights(resp.Text),
		Metrics:           ComputeMetrics(now, issues, discussions, pullRequests, current),
		ReportType:        reportType,
		DetailLevel:       detailLevel,
		ReportDate:        now,
		IssuesCount:       len(issues),
		DiscussionsCount:  len(discussions),
		PullRequestsCount: len(pullRequests),
		CreatedAt:         now,
	}

	if err := g.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("persisting report: %w", err)
	}
	return report, nil
}

// summarize asks the model for a short summary of the generated content,
// falling back to the deterministic first-paragraph summary on any
// failure. This path never fails the report.
func (g *Generator) summarize(ctx context.Context, content string) string {
	tmpl := g.storedTemplate(ctx, SettingSummaryTemplate)
	if tmpl == "" {
		tmpl = defaultSummaryTemplate
	}
	prompt := ApplyTemplate(tmpl, []TemplateVar{{Name: "content", Value: content}})

	resp, err := g.client.Complete(ctx, llm.CompletionRequest{
		Task:   llm.TaskSummary,
		Prompt: prompt,
	})
	if err != nil {
		g.logger.Printf("summary generation failed, using fallback: %v", err)
		return FallbackSummary(content)
	}
	return strings.TrimSpace(resp.Text)
}

// fetchSnapshots loads the current and previous stats snapshots. The two
// reads are independent and run concurrently. A failed or absent snapshot
// degrades to nil; reports render without the trend block.
func (g *Generator) fetchSnapshots(ctx context.Context, projectID string, start time.Time) (current, previous *domain.StatsSnapshot) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s, err := g.snapshots.Latest(ctx, projectID)
		if err != nil {
			g.logger.Printf("project %s: loading current snapshot: %v", projectID, err)
			return
		}
		current = s
	}()
	go func() {
		defer wg.Done()
		s, err := g.snapshots.LatestBefore(ctx, projectID, start)
		if err != nil {
			g.logger.Printf("project %s: loading previous snapshot: %v", projectID, err)
			return
		}
		previous = s
	}()
	wg.Wait()
	return current, previous
}

func (g *Generator) storedTemplate(ctx context.Context, key string) string {
	if g.settings == nil {
		return ""
	}
	tmpl, err := g.settings.Get(ctx, key)
	if err != nil {
		g.logger.Printf("loading %s: %v", key, err)
		return ""
	}
	return tmpl
}

// windowStart computes the report window start for a report type.
func windowStart(now time.Time, reportType domain.ReportType) time.Time {
	switch reportType {
	case domain.ReportWeekly:
		return now.AddDate(0, 0, -7)
	case domain.ReportMonthly:
		return now.AddDate(0, -1, 0)
	default:
		return now.AddDate(0, 0, -1)
	}
}

func partition(items []*domain.ActivityItem) (issues, discussions, pullRequests []*domain.ActivityItem) {
	for _, it := range items {
		switch it.Kind {
		case domain.KindIssue:
			issues = append(issues, it)
		case domain.KindDiscussion:
			discussions = append(discussions, it)
		case domain.KindPullRequest:
			pullRequests = append(pullRequests, it)
		}
	}
	return issues, discussions, pullRequests
}

// reportTitle builds the persisted title, e.g.
// "linux Daily Report - 2026-01-15" or "... (Summary)".
func reportTitle(projectName string, reportType domain.ReportType, detailLevel domain.DetailLevel, date time.Time) string {
	label := titleCaser.String(strings.ToLower(string(reportType)))
	title := fmt.Sprintf("%s %s Report - %s", projectName, label, date.Format("2006-01-02"))
	if detailLevel == domain.DetailSummary {
		title += " (Summary)"
	}
	return title
}
