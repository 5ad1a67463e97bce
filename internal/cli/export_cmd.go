package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlefebvre/repopulse/internal/export"
)

func newExportCmd(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export PROJECT",
		Short: "Export a project's reports and activity to CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			reports, err := app.Reports.ListByProject(ctx, p.ID, 100)
			if err != nil {
				return err
			}
			items, err := app.Activity.ListRecent(ctx, p.ID, 500)
			if err != nil {
				return err
			}
			bundle := export.Bundle{Project: p, Reports: reports, Items: items}

			if output == "" {
				output = "."
			}
			if err := os.MkdirAll(output, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			timestamp := time.Now().Format("2006-01-02_15-04-05")

			switch format {
			case "csv":
				reportsPath := filepath.Join(output, fmt.Sprintf("%s_%s_reports.csv", p.Repo, timestamp))
				if err := writeFile(reportsPath, func(f *os.File) error {
					return export.WriteReportsCSV(f, bundle)
				}); err != nil {
					return err
				}
				activityPath := filepath.Join(output, fmt.Sprintf("%s_%s_activity.csv", p.Repo, timestamp))
				if err := writeFile(activityPath, func(f *os.File) error {
					return export.WriteActivityCSV(f, bundle)
				}); err != nil {
					return err
				}
				fmt.Printf("Wrote %s and %s\n", reportsPath, activityPath)
			case "xlsx":
				path := filepath.Join(output, fmt.Sprintf("%s_%s.xlsx", p.Repo, timestamp))
				if err := writeFile(path, func(f *os.File) error {
					return export.WriteXLSX(f, bundle)
				}); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", path)
			default:
				return fmt.Errorf("unsupported format %q (csv or xlsx)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Export format (csv or xlsx)")
	cmd.Flags().StringVar(&output, "output", ".", "Output directory")

	return cmd
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
