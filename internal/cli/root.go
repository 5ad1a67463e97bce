// Package cli implements the repopulse command-line interface.
package cli

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/mlefebvre/repopulse/internal/report"
	"github.com/mlefebvre/repopulse/internal/repository"
	"github.com/mlefebvre/repopulse/internal/sync"
)

// App holds references to everything CLI commands need.
type App struct {
	Projects repository.ProjectRepo
	Activity repository.ActivityRepo
	Reports  repository.ReportRepo
	Settings repository.SettingRepo

	Generator *report.Generator
	Syncer    *sync.Syncer

	// NewServer builds the HTTP application for the serve command.
	NewServer func() *fiber.App
	Port      string

	// IsInteractive reports whether stdout is a terminal; progress bars
	// are suppressed when it is not.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "repopulse" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "repopulse",
		Short: "GitHub activity dashboard with AI-generated reports",
	}

	root.AddCommand(
		newProjectCmd(app),
		newSyncCmd(app),
		newReportCmd(app),
		newSettingsCmd(app),
		newExportCmd(app),
		newServeCmd(app),
	)

	return root
}
