package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent, so the full
// list runs on each startup.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		owner         TEXT NOT NULL,
		repo          TEXT NOT NULL,
		url           TEXT NOT NULL DEFAULT '',
		description   TEXT NOT NULL DEFAULT '',
		is_active     INTEGER NOT NULL DEFAULT 1,
		last_sync_at  TEXT,
		report_config TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_slug ON projects(owner, repo)`,

	`CREATE TABLE IF NOT EXISTS activity_items (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		kind       TEXT NOT NULL
		           CHECK(kind IN ('ISSUE','DISCUSSION','PULL_REQUEST')),
		github_id  INTEGER NOT NULL,
		title      TEXT NOT NULL,
		body       TEXT NOT NULL DEFAULT '',
		author     TEXT NOT NULL DEFAULT 'unknown',
		url        TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT,
		synced_at  TEXT NOT NULL,
		UNIQUE(project_id, github_id, kind)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activity_project ON activity_items(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_created ON activity_items(project_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS reports (
		id                  TEXT PRIMARY KEY,
		project_id          TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title               TEXT NOT NULL,
		content             TEXT NOT NULL,
		summary             TEXT NOT NULL DEFAULT '',
		highlights          TEXT NOT NULL DEFAULT '[]',
		metrics             TEXT,
		report_type         TEXT NOT NULL
		                    CHECK(report_type IN ('DAILY','WEEKLY','MONTHLY')),
		detail_level        TEXT NOT NULL DEFAULT 'detailed'
		                    CHECK(detail_level IN ('summary','detailed')),
		report_date         TEXT NOT NULL,
		issues_count        INTEGER NOT NULL DEFAULT 0,
		discussions_count   INTEGER NOT NULL DEFAULT 0,
		pull_requests_count INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_reports_project ON reports(project_id, report_date)`,

	`CREATE TABLE IF NOT EXISTS stats_snapshots (
		id                 TEXT PRIMARY KEY,
		project_id         TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		stars              INTEGER NOT NULL DEFAULT 0,
		forks              INTEGER NOT NULL DEFAULT 0,
		open_issues        INTEGER NOT NULL DEFAULT 0,
		weekly_commits     INTEGER NOT NULL DEFAULT 0,
		contributors_count INTEGER NOT NULL DEFAULT 0,
		top_contributors   TEXT NOT NULL DEFAULT '[]',
		captured_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_project ON stats_snapshots(project_id, captured_at)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		encrypted  INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	)`,
}
