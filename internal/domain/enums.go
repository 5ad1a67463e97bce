package domain

// ActivityKind distinguishes the three GitHub item types we track.
type ActivityKind string

const (
	KindIssue       ActivityKind = "ISSUE"
	KindDiscussion  ActivityKind = "DISCUSSION"
	KindPullRequest ActivityKind = "PULL_REQUEST"
)

// ValidActivityKinds is the canonical set of accepted activity kind strings.
var ValidActivityKinds = map[string]bool{
	"ISSUE": true, "DISCUSSION": true, "PULL_REQUEST": true,
}

// ReportType is the time-window granularity of a generated report.
type ReportType string

const (
	ReportDaily   ReportType = "DAILY"
	ReportWeekly  ReportType = "WEEKLY"
	ReportMonthly ReportType = "MONTHLY"
)

// ValidReportTypes is the canonical set of accepted report type strings.
var ValidReportTypes = map[string]bool{
	"DAILY": true, "WEEKLY": true, "MONTHLY": true,
}

// DetailLevel selects between the full analytical report template and the
// compact executive-summary template.
type DetailLevel string

const (
	DetailSummary  DetailLevel = "summary"
	DetailDetailed DetailLevel = "detailed"
)

// ValidDetailLevels is the canonical set of accepted detail level strings.
var ValidDetailLevels = map[string]bool{
	"summary": true, "detailed": true,
}
