package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlefebvre/repopulse/internal/domain"
	"github.com/mlefebvre/repopulse/internal/report"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate and browse activity reports",
	}

	cmd.AddCommand(
		newReportGenerateCmd(app),
		newReportListCmd(app),
		newReportShowCmd(app),
	)

	return cmd
}

func newReportGenerateCmd(app *App) *cobra.Command {
	var reportType, detailLevel string

	cmd := &cobra.Command{
		Use:   "generate PROJECT",
		Short: "Generate a report from recent activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			reportType = strings.ToUpper(reportType)
			if !domain.ValidReportTypes[reportType] {
				return fmt.Errorf("invalid report type %q (DAILY, WEEKLY, or MONTHLY)", reportType)
			}
			if !domain.ValidDetailLevels[detailLevel] {
				return fmt.Errorf("invalid detail level %q (summary or detailed)", detailLevel)
			}

			generated, err := app.Generator.Generate(ctx, p,
				domain.ReportType(reportType), domain.DetailLevel(detailLevel))
			if errors.Is(err, report.ErrNoActivity) {
				fmt.Printf("No activity for %s in the %s window.\n", p.Name, strings.ToLower(reportType))
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s\n\n%s\n", generated.Title, generated.Content)
			return nil
		},
	}

	cmd.Flags().StringVar(&reportType, "type", "DAILY", "Report window (DAILY, WEEKLY, MONTHLY)")
	cmd.Flags().StringVar(&detailLevel, "detail", "detailed", "Detail level (summary or detailed)")

	return cmd
}

func newReportListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list [PROJECT]",
		Short: "List stored reports",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var reports []*domain.Report
			var err error
			if len(args) == 1 {
				p, resolveErr := resolveProject(ctx, app, args[0])
				if resolveErr != nil {
					return resolveErr
				}
				reports, err = app.Reports.ListByProject(ctx, p.ID, limit)
			} else {
				reports, err = app.Reports.ListAll(ctx, limit)
			}
			if err != nil {
				return err
			}

			if len(reports) == 0 {
				fmt.Println("No reports found.")
				return nil
			}

			fmt.Printf("%-10s %-9s %-9s %s\n", "ID", "TYPE", "DETAIL", "TITLE")
			for _, r := range reports {
				fmt.Printf("%-10s %-9s %-9s %s\n", r.ID[:8], r.ReportType, r.DetailLevel, r.Title)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of reports")

	return cmd
}

func newReportShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show REPORT_ID",
		Short: "Print a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			r, err := app.Reports.GetByID(ctx, args[0])
			if err != nil {
				// Fall back to ID prefix matching so the truncated IDs
				// printed by list are usable here.
				all, listErr := app.Reports.ListAll(ctx, 0)
				if listErr != nil {
					return err
				}
				for _, candidate := range all {
					if strings.HasPrefix(candidate.ID, args[0]) {
						r = candidate
						break
					}
				}
				if r == nil {
					return err
				}
			}

			fmt.Printf("%s\n\n%s\n", r.Title, r.Content)
			if len(r.Highlights) > 0 {
				fmt.Println("\nHighlights:")
				for _, h := range r.Highlights {
					fmt.Printf("  %s\n", h)
				}
			}
			return nil
		},
	}
}
