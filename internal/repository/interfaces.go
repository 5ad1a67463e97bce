package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mlefebvre/repopulse/internal/domain"
)

// ErrNotFound is returned by lookups for rows that do not exist. Wrapped
// errors name the entity, e.g. "project not found".
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetBySlug(ctx context.Context, owner, repo string) (*domain.Project, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	TouchSync(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type ActivityRepo interface {
	// Upsert inserts the item, or refreshes title/body/updated_at/synced_at
	// when an item with the same (project, github id, kind) already exists.
	// Returns true if a new row was created.
	Upsert(ctx context.Context, item *domain.ActivityItem) (created bool, err error)

	// ListSince returns all items for a project whose created_at OR
	// updated_at is at or after since, newest created first.
	ListSince(ctx context.Context, projectID string, since time.Time) ([]*domain.ActivityItem, error)

	ListRecent(ctx context.Context, projectID string, limit int) ([]*domain.ActivityItem, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
}

type ReportRepo interface {
	Create(ctx context.Context, r *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.Report, error)
	ListAll(ctx context.Context, limit int) ([]*domain.Report, error)
}

type SnapshotRepo interface {
	Create(ctx context.Context, s *domain.StatsSnapshot) error

	// Latest returns the most recent snapshot for a project, or nil when
	// none exists.
	Latest(ctx context.Context, projectID string) (*domain.StatsSnapshot, error)

	// LatestBefore returns the most recent snapshot captured strictly
	// before the given time, or nil when none exists.
	LatestBefore(ctx context.Context, projectID string, before time.Time) (*domain.StatsSnapshot, error)
}

type SettingRepo interface {
	// Get returns the stored value for key, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	GetSetting(ctx context.Context, key string) (*domain.Setting, error)
	List(ctx context.Context) ([]domain.Setting, error)
	Upsert(ctx context.Context, s *domain.Setting) error
	Delete(ctx context.Context, key string) error
}
