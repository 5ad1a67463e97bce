package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes a workbook with an overview sheet, a reports sheet,
// and an activity sheet.
func WriteXLSX(w io.Writer, b Bundle) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := createOverviewSheet(f, b); err != nil {
		return fmt.Errorf("failed to create overview sheet: %w", err)
	}
	if err := createReportsSheet(f, b); err != nil {
		return fmt.Errorf("failed to create reports sheet: %w", err)
	}
	if err := createActivitySheet(f, b); err != nil {
		return fmt.Errorf("failed to create activity sheet: %w", err)
	}

	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	return style
}

func createOverviewSheet(f *excelize.File, b Bundle) error {
	const sheet = "Overview"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	rows := [][2]any{
		{"Project", b.Project.Name},
		{"Repository", b.Project.Slug()},
		{"URL", b.Project.URL},
		{"Reports", len(b.Reports)},
		{"Activity items", len(b.Items)},
	}
	if b.Project.LastSyncAt != nil {
		rows = append(rows, [2]any{"Last sync", b.Project.LastSyncAt.Format(exportDateLayout)})
	}
	if len(b.Reports) > 0 && b.Reports[0].Metrics != nil {
		m := b.Reports[0].Metrics
		rows = append(rows,
			[2]any{"Unique authors (latest report)", m.UniqueAuthors},
			[2]any{"Total activity (latest report)", m.TotalActivity},
		)
		if m.Repository != nil {
			rows = append(rows,
				[2]any{"Stars", m.Repository.Stars},
				[2]any{"Forks", m.Repository.Forks},
				[2]any{"Open issues", m.Repository.OpenIssues},
			)
		}
	}

	for i, r := range rows {
		f.SetCellValue(sheet, cellName(1, i+1), r[0])
		f.SetCellValue(sheet, cellName(2, i+1), r[1])
	}
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 50)
	return nil
}

func createReportsSheet(f *excelize.File, b Bundle) error {
	const sheet = "Reports"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	style := headerStyle(f)
	headers := []string{"#", "Title", "Type", "Detail Level", "Report Date", "Issues", "Discussions", "Pull Requests", "Summary"}
	for col, header := range headers {
		cell := cellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}

	for i, r := range b.Reports {
		row := i + 2
		f.SetCellValue(sheet, cellName(1, row), i+1)
		f.SetCellValue(sheet, cellName(2, row), r.Title)
		f.SetCellValue(sheet, cellName(3, row), string(r.ReportType))
		f.SetCellValue(sheet, cellName(4, row), string(r.DetailLevel))
		f.SetCellValue(sheet, cellName(5, row), r.ReportDate.Format(exportDateLayout))
		f.SetCellValue(sheet, cellName(6, row), r.IssuesCount)
		f.SetCellValue(sheet, cellName(7, row), r.DiscussionsCount)
		f.SetCellValue(sheet, cellName(8, row), r.PullRequestsCount)
		f.SetCellValue(sheet, cellName(9, row), r.Summary)
	}

	f.SetColWidth(sheet, "A", "A", 5)
	f.SetColWidth(sheet, "B", "B", 45)
	f.SetColWidth(sheet, "C", "E", 15)
	f.SetColWidth(sheet, "I", "I", 60)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return nil
}

func createActivitySheet(f *excelize.File, b Bundle) error {
	const sheet = "Activity"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	style := headerStyle(f)
	headers := []string{"#", "Kind", "Number", "Title", "Author", "Created", "Updated", "URL"}
	for col, header := range headers {
		cell := cellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}

	for i, item := range b.Items {
		row := i + 2
		updated := ""
		if item.UpdatedAt != nil {
			updated = item.UpdatedAt.Format(exportDateLayout)
		}
		f.SetCellValue(sheet, cellName(1, row), i+1)
		f.SetCellValue(sheet, cellName(2, row), string(item.Kind))
		f.SetCellValue(sheet, cellName(3, row), item.GitHubID)
		f.SetCellValue(sheet, cellName(4, row), item.Title)
		f.SetCellValue(sheet, cellName(5, row), item.Author)
		f.SetCellValue(sheet, cellName(6, row), item.CreatedAt.Format(exportDateLayout))
		f.SetCellValue(sheet, cellName(7, row), updated)
		f.SetCellValue(sheet, cellName(8, row), item.URL)
	}

	f.SetColWidth(sheet, "A", "A", 5)
	f.SetColWidth(sheet, "B", "C", 14)
	f.SetColWidth(sheet, "D", "D", 45)
	f.SetColWidth(sheet, "E", "G", 15)
	f.SetColWidth(sheet, "H", "H", 50)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return nil
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
