package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mlefebvre/repopulse/internal/domain"
)

// SQLiteReportRepo implements ReportRepo using a SQLite database.
type SQLiteReportRepo struct {
	db *sql.DB
}

// NewSQLiteReportRepo creates a new SQLiteReportRepo.
func NewSQLiteReportRepo(db *sql.DB) *SQLiteReportRepo {
	return &SQLiteReportRepo{db: db}
}

const reportColumns = `id, project_id, title, content, summary, highlights, metrics, report_type, detail_level, report_date, issues_count, discussions_count, pull_requests_count, created_at`

func (r *SQLiteReportRepo) Create(ctx context.Context, rep *domain.Report) error {
	highlightsJSON, err := json.Marshal(rep.Highlights)
	if err != nil {
		return fmt.Errorf("encoding highlights: %w", err)
	}
	var metricsJSON interface{}
	if rep.Metrics != nil {
		data, err := json.Marshal(rep.Metrics)
		if err != nil {
			return fmt.Errorf("encoding metrics: %w", err)
		}
		metricsJSON = string(data)
	}

	query := `INSERT INTO reports (` + reportColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rep.ID,
		rep.ProjectID,
		rep.Title,
		rep.Content,
		rep.Summary,
		string(highlightsJSON),
		metricsJSON,
		string(rep.ReportType),
		string(rep.DetailLevel),
		rep.ReportDate.UTC().Format(time.RFC3339),
		rep.IssuesCount,
		rep.DiscussionsCount,
		rep.PullRequestsCount,
		rep.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

func (r *SQLiteReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("loading report: %w", err)
	}
	defer rows.Close()

	reports, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("report %w", ErrNotFound)
	}
	return reports[0], nil
}

func (r *SQLiteReportRepo) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports
		WHERE project_id = ? ORDER BY report_date DESC, created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, projectID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *SQLiteReportRepo) ListAll(ctx context.Context, limit int) ([]*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports
		ORDER BY report_date DESC, created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *SQLiteReportRepo) collect(rows *sql.Rows) ([]*domain.Report, error) {
	var reports []*domain.Report
	for rows.Next() {
		var rep domain.Report
		var highlightsStr, typeStr, detailStr, dateStr, createdAtStr string
		var metricsStr sql.NullString

		err := rows.Scan(
			&rep.ID, &rep.ProjectID, &rep.Title, &rep.Content, &rep.Summary,
			&highlightsStr, &metricsStr, &typeStr, &detailStr, &dateStr,
			&rep.IssuesCount, &rep.DiscussionsCount, &rep.PullRequestsCount,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}

		if err := json.Unmarshal([]byte(highlightsStr), &rep.Highlights); err != nil {
			return nil, fmt.Errorf("decoding highlights: %w", err)
		}
		if metricsStr.Valid && metricsStr.String != "" {
			var m domain.ReportMetrics
			if err := json.Unmarshal([]byte(metricsStr.String), &m); err != nil {
				return nil, fmt.Errorf("decoding metrics: %w", err)
			}
			rep.Metrics = &m
		}

		rep.ReportType = domain.ReportType(typeStr)
		rep.DetailLevel = domain.DetailLevel(detailStr)

		reportDate, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing report_date: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		rep.ReportDate = reportDate
		rep.CreatedAt = createdAt

		reports = append(reports, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, nil
}
