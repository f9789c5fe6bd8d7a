package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medpages/internal/data/entity"
	"medpages/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type LandingPageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LandingPage, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*entity.LandingPage, error)
	ListAll(ctx context.Context) ([]entity.LandingPage, error)
	ListByStatus(ctx context.Context, status entity.PageStatus) ([]entity.LandingPage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PageStatus, publishedAt *time.Time) error
}

type landingPageRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewLandingPageRepository(db database.Querier, log *zap.Logger) LandingPageRepository {
	return &landingPageRepository{
		db:  db,
		log: log.With(zap.String("repository", "landing_page")),
	}
}

const pageColumns = `
	id, subdomain, status, briefing, content, design, visibility,
	meta_title, meta_description, published_at, created_at, updated_at
`

func (r *landingPageRepository) scanPage(row pgx.Row) (*entity.LandingPage, error) {
	var page entity.LandingPage
	var briefing []byte

	err := row.Scan(
		&page.ID,
		&page.Subdomain,
		&page.Status,
		&briefing,
		&page.Content,
		&page.Design,
		&page.Visibility,
		&page.MetaTitle,
		&page.MetaDescription,
		&page.PublishedAt,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(briefing) > 0 {
		if err := json.Unmarshal(briefing, &page.Briefing); err != nil {
			return nil, fmt.Errorf("decode briefing for page %s: %w", page.ID.String(), err)
		}
	}

	return &page, nil
}

func (r *landingPageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LandingPage, error) {
	query := `SELECT ` + pageColumns + ` FROM landing_pages WHERE id = $1`

	page, err := r.scanPage(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find landing page",
			zap.Error(err),
			zap.String("page_id", id.String()),
		)
		return nil, fmt.Errorf("find landing page %s: %w", id.String(), err)
	}

	return page, nil
}

func (r *landingPageRepository) FindBySubdomain(ctx context.Context, subdomain string) (*entity.LandingPage, error) {
	query := `SELECT ` + pageColumns + ` FROM landing_pages WHERE subdomain = lower($1)`

	page, err := r.scanPage(r.db.QueryRow(ctx, query, subdomain))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find landing page by subdomain",
			zap.Error(err),
			zap.String("subdomain", subdomain),
		)
		return nil, fmt.Errorf("find landing page %s: %w", subdomain, err)
	}

	return page, nil
}

func (r *landingPageRepository) ListAll(ctx context.Context) ([]entity.LandingPage, error) {
	query := `SELECT ` + pageColumns + ` FROM landing_pages ORDER BY updated_at DESC`

	return r.list(ctx, query)
}

func (r *landingPageRepository) ListByStatus(ctx context.Context, status entity.PageStatus) ([]entity.LandingPage, error) {
	query := `SELECT ` + pageColumns + ` FROM landing_pages WHERE status = $1 ORDER BY updated_at DESC`

	return r.list(ctx, query, status)
}

func (r *landingPageRepository) list(ctx context.Context, query string, args ...any) ([]entity.LandingPage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list landing pages", zap.Error(err))
		return nil, fmt.Errorf("list landing pages: %w", err)
	}
	defer rows.Close()

	var pages []entity.LandingPage
	for rows.Next() {
		page, err := r.scanPage(rows)
		if err != nil {
			r.log.Error("Failed to scan landing page row", zap.Error(err))
			return nil, fmt.Errorf("scan landing page: %w", err)
		}
		pages = append(pages, *page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate landing pages: %w", err)
	}

	return pages, nil
}

func (r *landingPageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PageStatus, publishedAt *time.Time) error {
	query := `
		UPDATE landing_pages
		SET status = $2,
		    published_at = COALESCE($3, published_at),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, status, publishedAt)
	if err != nil {
		r.log.Error("Failed to update landing page status",
			zap.Error(err),
			zap.String("page_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update status of page %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("landing page %s not found", id.String())
	}

	return nil
}
