// Package web exposes the HTTP API: project management, report
// generation and retrieval, settings, sync triggering, and exports.
package web

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/mlefebvre/repopulse/internal/llm"
	"github.com/mlefebvre/repopulse/internal/report"
	"github.com/mlefebvre/repopulse/internal/repository"
	"github.com/mlefebvre/repopulse/internal/sync"
)

// Deps bundles everything the handlers need.
type Deps struct {
	Projects  repository.ProjectRepo
	Activity  repository.ActivityRepo
	Reports   repository.ReportRepo
	Settings  repository.SettingRepo
	Generator *report.Generator
	Syncer    *sync.Syncer
	Resolver  *llm.CredentialResolver

	// CronSecret guards the sync endpoint; empty disables the check.
	CronSecret string
	Logger     *log.Logger
}

// NewApp builds the fiber application with all routes mounted.
func NewApp(deps Deps) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "repopulse",
		DisableStartupMessage: true,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")
	newProjectHandler(deps).register(v1)
	newReportHandler(deps).register(v1)
	newSettingHandler(deps).register(v1)
	newSyncHandler(deps).register(v1)
	newModelHandler(deps).register(v1)
	return app
}
