package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medpages/internal/data/entity"
	"medpages/internal/data/repository"
	"medpages/pkg/metrics"
	"medpages/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPageNotFound  = errors.New("landing page not found")
	ErrInvalidStatus = errors.New("invalid status")
)

type PageService interface {
	List(ctx context.Context) ([]entity.LandingPage, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.LandingPage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PageStatus) error
}

type pageService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPageService(repo *repository.Repository, log *zap.Logger) PageService {
	return &pageService{
		repo: repo,
		log:  log,
	}
}

func (s *pageService) List(ctx context.Context) ([]entity.LandingPage, error) {
	pages, err := s.repo.Page.ListAll(ctx)
	if err != nil {
		s.log.Error("Failed to list landing pages", zap.Error(err))
		return nil, fmt.Errorf("failed to list pages")
	}
	return pages, nil
}

func (s *pageService) Get(ctx context.Context, id uuid.UUID) (*entity.LandingPage, error) {
	page, err := s.repo.Page.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get landing page", zap.Error(err), zap.String("page_id", id.String()))
		return nil, fmt.Errorf("failed to get page")
	}
	if page == nil {
		return nil, ErrPageNotFound
	}
	return page, nil
}

// UpdateStatus persists the transition and, when the new status is
// published, enqueues the notification-email and HTML-render events in the
// same transaction. The status write never waits on either side effect.
func (s *pageService) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PageStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	page, err := s.repo.Page.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load landing page", zap.Error(err), zap.String("page_id", id.String()))
		return fmt.Errorf("failed to update status")
	}
	if page == nil {
		return ErrPageNotFound
	}

	publishing := status == entity.StatusPublished

	var publishedAt *time.Time
	if publishing {
		now := time.Now()
		publishedAt = &now
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Page.UpdateStatus(ctx, id, status, publishedAt); err != nil {
			return err
		}

		if !publishing {
			return nil
		}

		payload, err := json.Marshal(entity.PagePayload{PageID: id.String()})
		if err != nil {
			return fmt.Errorf("encode outbox payload: %w", err)
		}

		now := time.Now()
		for _, eventType := range []string{entity.EventPagePublishedEmail, entity.EventRenderPageHTML} {
			event := &entity.OutboxEvent{
				BaseSimple: entity.BaseSimple{
					ID:        utils.GenerateUUID(),
					CreatedAt: now,
				},
				EventType:     eventType,
				Payload:       payload,
				Status:        entity.OutboxPending,
				NextAttemptAt: now,
			}
			if err := tx.Outbox.Enqueue(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		s.log.Error("Failed to update landing page status",
			zap.Error(err),
			zap.String("page_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("failed to update status")
	}

	if publishing {
		metrics.PagesPublishedTotal.Inc()
	}

	s.log.Info("Landing page status updated",
		zap.String("page_id", id.String()),
		zap.String("subdomain", page.Subdomain),
		zap.String("status", string(status)),
		zap.Bool("published", publishing),
	)

	return nil
}
