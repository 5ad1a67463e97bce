package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mlefebvre/repopulse/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo using a SQLite database.
type SQLiteSnapshotRepo struct {
	db *sql.DB
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo.
func NewSQLiteSnapshotRepo(db *sql.DB) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: db}
}

const snapshotColumns = `id, project_id, stars, forks, open_issues, weekly_commits, contributors_count, top_contributors, captured_at`

func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.StatsSnapshot) error {
	contributorsJSON, err := json.Marshal(s.TopContributors)
	if err != nil {
		return fmt.Errorf("encoding contributors: %w", err)
	}
	query := `INSERT INTO stats_snapshots (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.ProjectID,
		s.Stars,
		s.Forks,
		s.OpenIssues,
		s.WeeklyCommits,
		s.ContributorsCount,
		string(contributorsJSON),
		s.CapturedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Latest(ctx context.Context, projectID string) (*domain.StatsSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM stats_snapshots
		WHERE project_id = ? ORDER BY captured_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, projectID))
}

func (r *SQLiteSnapshotRepo) LatestBefore(ctx context.Context, projectID string, before time.Time) (*domain.StatsSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM stats_snapshots
		WHERE project_id = ? AND captured_at < ? ORDER BY captured_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, projectID, before.UTC().Format(time.RFC3339)))
}

// scanOne scans a snapshot row; a missing row yields (nil, nil) since an
// absent snapshot is an expected condition, not an error.
func (r *SQLiteSnapshotRepo) scanOne(row *sql.Row) (*domain.StatsSnapshot, error) {
	var s domain.StatsSnapshot
	var contributorsStr, capturedAtStr string

	err := row.Scan(
		&s.ID, &s.ProjectID, &s.Stars, &s.Forks, &s.OpenIssues,
		&s.WeeklyCommits, &s.ContributorsCount, &contributorsStr, &capturedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(contributorsStr), &s.TopContributors); err != nil {
		return nil, fmt.Errorf("decoding contributors: %w", err)
	}
	capturedAt, err := time.Parse(time.RFC3339, capturedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing captured_at: %w", err)
	}
	s.CapturedAt = capturedAt
	return &s, nil
}
