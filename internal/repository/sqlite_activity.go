package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mlefebvre/repopulse/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db *sql.DB
}

// NewSQLiteActivityRepo creates a new SQLiteActivityRepo.
func NewSQLiteActivityRepo(db *sql.DB) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: db}
}

const activityColumns = `id, project_id, kind, github_id, title, body, author, url, created_at, updated_at, synced_at`

func (r *SQLiteActivityRepo) Upsert(ctx context.Context, item *domain.ActivityItem) (bool, error) {
	// ON CONFLICT keeps the original id and created_at; only mutable
	// fields are refreshed, so repeated syncs never duplicate an item.
	query := `INSERT INTO activity_items (` + activityColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, github_id, kind) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			updated_at = excluded.updated_at,
			synced_at = excluded.synced_at`

	var before int
	countQuery := `SELECT COUNT(*) FROM activity_items WHERE project_id = ? AND github_id = ? AND kind = ?`
	if err := r.db.QueryRowContext(ctx, countQuery, item.ProjectID, item.GitHubID, string(item.Kind)).Scan(&before); err != nil {
		return false, fmt.Errorf("checking existing activity item: %w", err)
	}

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.ProjectID,
		string(item.Kind),
		item.GitHubID,
		item.Title,
		item.Body,
		item.Author,
		item.URL,
		item.CreatedAt.UTC().Format(time.RFC3339),
		nullableTimeToString(item.UpdatedAt, time.RFC3339),
		item.SyncedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("upserting activity item: %w", err)
	}
	return before == 0, nil
}

func (r *SQLiteActivityRepo) ListSince(ctx context.Context, projectID string, since time.Time) ([]*domain.ActivityItem, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_items
		WHERE project_id = ? AND (created_at >= ? OR (updated_at IS NOT NULL AND updated_at >= ?))
		ORDER BY created_at DESC`
	sinceStr := since.UTC().Format(time.RFC3339)
	rows, err := r.db.QueryContext(ctx, query, projectID, sinceStr, sinceStr)
	if err != nil {
		return nil, fmt.Errorf("listing activity since %s: %w", sinceStr, err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *SQLiteActivityRepo) ListRecent(ctx context.Context, projectID string, limit int) ([]*domain.ActivityItem, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_items
		WHERE project_id = ? ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, projectID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing recent activity: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *SQLiteActivityRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_items WHERE project_id = ?`, projectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting activity items: %w", err)
	}
	return n, nil
}

func (r *SQLiteActivityRepo) collect(rows *sql.Rows) ([]*domain.ActivityItem, error) {
	var items []*domain.ActivityItem
	for rows.Next() {
		var it domain.ActivityItem
		var kindStr, createdAtStr, syncedAtStr string
		var updatedAtStr sql.NullString

		err := rows.Scan(
			&it.ID, &it.ProjectID, &kindStr, &it.GitHubID,
			&it.Title, &it.Body, &it.Author, &it.URL,
			&createdAtStr, &updatedAtStr, &syncedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning activity item: %w", err)
		}

		it.Kind = domain.ActivityKind(kindStr)
		createdAt, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		syncedAt, err := time.Parse(time.RFC3339, syncedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing synced_at: %w", err)
		}
		it.CreatedAt = createdAt
		it.SyncedAt = syncedAt
		it.UpdatedAt = parseNullableTime(updatedAtStr, time.RFC3339)

		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity items: %w", err)
	}
	return items, nil
}
