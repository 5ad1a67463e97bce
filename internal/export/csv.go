// Package export renders stored reports and activity as CSV and XLSX
// documents, for download from the API or the export CLI command.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mlefebvre/repopulse/internal/domain"
)

// Bundle is the data set handed to an exporter.
type Bundle struct {
	Project *domain.Project
	Reports []*domain.Report
	Items   []*domain.ActivityItem
}

const exportDateLayout = "02/01/06"

// WriteReportsCSV writes one row per report.
func WriteReportsCSV(w io.Writer, b Bundle) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"#",
		"Title",
		"Type",
		"Detail Level",
		"Report Date",
		"Issues",
		"Discussions",
		"Pull Requests",
		"Summary",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, r := range b.Reports {
		row := []string{
			fmt.Sprintf("%d", i+1),
			r.Title,
			string(r.ReportType),
			string(r.DetailLevel),
			r.ReportDate.Format(exportDateLayout),
			fmt.Sprintf("%d", r.IssuesCount),
			fmt.Sprintf("%d", r.DiscussionsCount),
			fmt.Sprintf("%d", r.PullRequestsCount),
			flatten(r.Summary),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

// WriteActivityCSV writes one row per activity item.
func WriteActivityCSV(w io.Writer, b Bundle) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"#",
		"Kind",
		"Number",
		"Title",
		"Author",
		"Created",
		"Updated",
		"URL",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, item := range b.Items {
		updated := ""
		if item.UpdatedAt != nil {
			updated = item.UpdatedAt.Format(exportDateLayout)
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			string(item.Kind),
			fmt.Sprintf("%d", item.GitHubID),
			item.Title,
			item.Author,
			item.CreatedAt.Format(exportDateLayout),
			updated,
			item.URL,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

// flatten collapses newlines so multi-line summaries stay on one CSV row
// when opened in tools that mishandle quoted newlines.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
