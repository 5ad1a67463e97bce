package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/mattn/go-isatty"

	"github.com/mlefebvre/repopulse/internal/cli"
	"github.com/mlefebvre/repopulse/internal/config"
	"github.com/mlefebvre/repopulse/internal/db"
	"github.com/mlefebvre/repopulse/internal/github"
	"github.com/mlefebvre/repopulse/internal/llm"
	"github.com/mlefebvre/repopulse/internal/report"
	"github.com/mlefebvre/repopulse/internal/repository"
	"github.com/mlefebvre/repopulse/internal/sync"
	"github.com/mlefebvre/repopulse/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger := log.New(os.Stderr, "", log.LstdFlags)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	reportRepo := repository.NewSQLiteReportRepo(database)
	snapshotRepo := repository.NewSQLiteSnapshotRepo(database)
	settingRepo := repository.NewSQLiteSettingRepo(database)

	// Wire the LLM client and report generator
	llmCfg := llm.LoadConfig()
	resolver := llm.NewCredentialResolver(settingRepo)
	var observer llm.Observer = llm.NoopObserver{}
	if os.Getenv("REPOPULSE_AI_LOG") != "" {
		observer = llm.NewLogObserver(os.Stderr)
	}
	llmClient, err := llm.New(llmCfg, resolver, observer)
	if err != nil {
		return fmt.Errorf("configuring AI provider: %w", err)
	}
	generator := report.NewGenerator(activityRepo, reportRepo, snapshotRepo, settingRepo, llmClient, logger)

	// Wire the GitHub client and syncer
	ghClient := github.NewClient(github.StaticToken(cfg.GitHubToken))
	syncer := sync.NewSyncer(ghClient, projectRepo, activityRepo, snapshotRepo, generator, logger)

	app := &cli.App{
		Projects:  projectRepo,
		Activity:  activityRepo,
		Reports:   reportRepo,
		Settings:  settingRepo,
		Generator: generator,
		Syncer:    syncer,
		Port:      cfg.Port,
		NewServer: func() *fiber.App {
			return web.NewApp(web.Deps{
				Projects:   projectRepo,
				Activity:   activityRepo,
				Reports:    reportRepo,
				Settings:   settingRepo,
				Generator:  generator,
				Syncer:     syncer,
				Resolver:   resolver,
				CronSecret: cfg.CronSecret,
				Logger:     logger,
			})
		},
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
