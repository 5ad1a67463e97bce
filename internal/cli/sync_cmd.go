package cli

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [PROJECT]",
		Short: "Fetch GitHub activity for one project or all active projects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if len(args) == 1 {
				p, err := resolveProject(ctx, app, args[0])
				if err != nil {
					return err
				}
				res := app.Syncer.SyncProject(ctx, p)
				if res.Err != nil {
					return res.Err
				}
				fmt.Printf("Synced %d items (%d new) for %s\n", res.Synced, res.Created, p.Name)
				if res.ReportGenerated {
					fmt.Println("Generated a daily report from the new activity.")
				}
				return nil
			}

			projects, err := app.Projects.List(ctx, true)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("No active projects to sync.")
				return nil
			}

			var bar *progressbar.ProgressBar
			if app.IsInteractive != nil && app.IsInteractive() {
				bar = progressbar.NewOptions(len(projects),
					progressbar.OptionSetDescription("Syncing"),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
				)
			}

			totalSynced, reportsGenerated, failures := 0, 0, 0
			for _, p := range projects {
				res := app.Syncer.SyncProject(ctx, p)
				if bar != nil {
					_ = bar.Add(1)
				}
				if res.Err != nil {
					failures++
					continue
				}
				totalSynced += res.Synced
				if res.ReportGenerated {
					reportsGenerated++
				}
			}
			if bar != nil {
				_ = bar.Finish()
				fmt.Println()
			}

			fmt.Printf("Synced %d items across %d projects, %d reports generated\n",
				totalSynced, len(projects), reportsGenerated)
			if failures > 0 {
				fmt.Printf("%d projects failed; see the log output above\n", failures)
			}
			return nil
		},
	}
}
