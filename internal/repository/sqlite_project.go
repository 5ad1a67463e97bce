package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mlefebvre/repopulse/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db *sql.DB
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(db *sql.DB) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

const projectColumns = `id, name, owner, repo, url, description, is_active, last_sync_at, report_config, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Owner,
		p.Repo,
		p.URL,
		p.Description,
		boolToInt(p.IsActive),
		nullableTimeToString(p.LastSyncAt, time.RFC3339),
		nullableString(p.ReportConfig),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanProject(row)
}

func (r *SQLiteProjectRepo) GetBySlug(ctx context.Context, owner, repo string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE LOWER(owner) = LOWER(?) AND LOWER(repo) = LOWER(?)`
	row := r.db.QueryRowContext(ctx, query, owner, repo)
	return r.scanProject(row)
}

func (r *SQLiteProjectRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at`
	if activeOnly {
		query = `SELECT ` + projectColumns + ` FROM projects WHERE is_active = 1 ORDER BY created_at`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := r.scanProjectFromRows(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, owner = ?, repo = ?, url = ?, description = ?,
		is_active = ?, report_config = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Owner,
		p.Repo,
		p.URL,
		p.Description,
		boolToInt(p.IsActive),
		nullableString(p.ReportConfig),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) TouchSync(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE projects SET last_sync_at = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, at.UTC().Format(time.RFC3339), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("recording sync time: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// scanProject scans a single project row from a *sql.Row.
func (r *SQLiteProjectRepo) scanProject(row *sql.Row) (*domain.Project, error) {
	var p domain.Project
	var isActive int
	var lastSyncStr, configStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.Name, &p.Owner, &p.Repo, &p.URL, &p.Description,
		&isActive, &lastSyncStr, &configStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return r.hydrateProject(&p, isActive, lastSyncStr, configStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteProjectRepo) scanProjectFromRows(rows *sql.Rows) (*domain.Project, error) {
	var p domain.Project
	var isActive int
	var lastSyncStr, configStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := rows.Scan(
		&p.ID, &p.Name, &p.Owner, &p.Repo, &p.URL, &p.Description,
		&isActive, &lastSyncStr, &configStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return r.hydrateProject(&p, isActive, lastSyncStr, configStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteProjectRepo) hydrateProject(p *domain.Project, isActive int, lastSyncStr, configStr sql.NullString, createdAtStr, updatedAtStr string) (*domain.Project, error) {
	p.IsActive = intToBool(isActive)
	p.LastSyncAt = parseNullableTime(lastSyncStr, time.RFC3339)
	if configStr.Valid {
		cfg := configStr.String
		p.ReportConfig = &cfg
	}

	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return p, nil
}
