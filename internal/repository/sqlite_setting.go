package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mlefebvre/repopulse/internal/domain"
)

// SQLiteSettingRepo implements SettingRepo using a SQLite database.
type SQLiteSettingRepo struct {
	db *sql.DB
}

// NewSQLiteSettingRepo creates a new SQLiteSettingRepo.
func NewSQLiteSettingRepo(db *sql.DB) *SQLiteSettingRepo {
	return &SQLiteSettingRepo{db: db}
}

func (r *SQLiteSettingRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("loading setting %s: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteSettingRepo) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT key, value, encrypted, updated_at FROM settings WHERE key = ?`, key)

	var s domain.Setting
	var encrypted int
	var updatedAtStr string
	if err := row.Scan(&s.Key, &s.Value, &encrypted, &updatedAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("loading setting %s: %w", key, err)
	}
	s.Encrypted = intToBool(encrypted)
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	s.UpdatedAt = updatedAt
	return &s, nil
}

func (r *SQLiteSettingRepo) List(ctx context.Context) ([]domain.Setting, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value, encrypted, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	var settings []domain.Setting
	for rows.Next() {
		var s domain.Setting
		var encrypted int
		var updatedAtStr string
		if err := rows.Scan(&s.Key, &s.Value, &encrypted, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		s.Encrypted = intToBool(encrypted)
		updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		s.UpdatedAt = updatedAt
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating settings: %w", err)
	}
	return settings, nil
}

func (r *SQLiteSettingRepo) Upsert(ctx context.Context, s *domain.Setting) error {
	query := `INSERT INTO settings (key, value, encrypted, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			encrypted = excluded.encrypted,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		s.Key, s.Value, boolToInt(s.Encrypted), s.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting setting %s: %w", s.Key, err)
	}
	return nil
}

func (r *SQLiteSettingRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting setting %s: %w", key, err)
	}
	return nil
}
