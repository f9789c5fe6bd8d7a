package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medpages/internal/data/entity"
	"medpages/internal/data/repository"
	"medpages/internal/gateway"
	"medpages/pkg/metrics"
	"medpages/pkg/utils"

	"go.uber.org/zap"
)

const (
	dispatchBatchSize = 20

	// How long a claimed event stays invisible to other dispatchers. Must
	// comfortably exceed the slowest handler (one SMTP send or one render).
	claimLease = 5 * time.Minute
)

type pageRenderer interface {
	Render(ctx context.Context, page *entity.LandingPage) (string, error)
}

// OutboxDispatcher polls pending outbox events and executes their side
// effects. Events are retried with exponential backoff and parked as
// failed after the configured attempt limit.
type OutboxDispatcher struct {
	repo     *repository.Repository
	mailer   gateway.Mailer
	renderer pageRenderer
	cfg      utils.OutboxConfig
	suffix   string
	log      *zap.Logger
	now      func() time.Time
}

func NewOutboxDispatcher(repo *repository.Repository, mailer gateway.Mailer, renderer pageRenderer, cfg utils.OutboxConfig, suffix string, log *zap.Logger) *OutboxDispatcher {
	return &OutboxDispatcher{
		repo:     repo,
		mailer:   mailer,
		renderer: renderer,
		cfg:      cfg,
		suffix:   suffix,
		log:      log.With(zap.String("worker", "outbox")),
		now:      time.Now,
	}
}

// Run blocks, dispatching due events on every poll tick, until ctx is done.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(d.cfg.PollSeconds) * time.Second)
	defer ticker.Stop()

	d.log.Info("Outbox dispatcher started",
		zap.Int("poll_seconds", d.cfg.PollSeconds),
		zap.Int("max_attempts", d.cfg.MaxAttempts),
	)

	for {
		select {
		case <-ctx.Done():
			d.log.Info("Outbox dispatcher stopped")
			return
		case <-ticker.C:
			if err := d.DispatchDue(ctx); err != nil {
				d.log.Error("Outbox dispatch cycle failed", zap.Error(err))
			}
		}
	}
}

// DispatchDue processes one batch of due events.
func (d *OutboxDispatcher) DispatchDue(ctx context.Context) error {
	now := d.now()
	events, err := d.repo.Outbox.ClaimDue(ctx, now, now.Add(claimLease), dispatchBatchSize)
	if err != nil {
		return err
	}

	for i := range events {
		d.dispatch(ctx, &events[i])
	}

	return nil
}

func (d *OutboxDispatcher) dispatch(ctx context.Context, event *entity.OutboxEvent) {
	if err := d.handle(ctx, event); err != nil {
		metrics.OutboxFailuresTotal.WithLabelValues(event.EventType).Inc()
		d.fail(ctx, event, err)
		return
	}

	metrics.OutboxDispatchedTotal.WithLabelValues(event.EventType).Inc()
	if err := d.repo.Outbox.MarkDone(ctx, event.ID); err != nil {
		d.log.Error("Failed to mark event done, it will be redelivered",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
	}
}

func (d *OutboxDispatcher) handle(ctx context.Context, event *entity.OutboxEvent) error {
	var payload entity.PagePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	pageID, err := utils.ParseUUID(payload.PageID)
	if err != nil {
		return fmt.Errorf("parse page id: %w", err)
	}

	page, err := d.repo.Page.FindByID(ctx, pageID)
	if err != nil {
		return err
	}
	if page == nil {
		return fmt.Errorf("page %s not found", payload.PageID)
	}

	switch event.EventType {
	case entity.EventPagePublishedEmail:
		pageURL := fmt.Sprintf("https://%s%s", page.Subdomain, d.suffix)
		return d.mailer.SendPagePublishedEmail(page.Briefing.Email, page.Briefing.Name, pageURL)

	case entity.EventRenderPageHTML:
		_, err := d.renderer.Render(ctx, page)
		return err

	default:
		return fmt.Errorf("unknown event type %q", event.EventType)
	}
}

func (d *OutboxDispatcher) fail(ctx context.Context, event *entity.OutboxEvent, cause error) {
	attempts := event.Attempts + 1

	d.log.Warn("Outbox event handling failed",
		zap.Error(cause),
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.EventType),
		zap.Int("attempts", attempts),
	)

	if attempts >= d.cfg.MaxAttempts {
		if err := d.repo.Outbox.MarkFailed(ctx, event.ID, cause.Error()); err != nil {
			d.log.Error("Failed to park outbox event", zap.Error(err))
		}
		return
	}

	// Backoff doubles per attempt: base, 2x base, 4x base...
	backoff := time.Duration(d.cfg.BackoffSeconds) * time.Second * (1 << (attempts - 1))
	next := d.now().Add(backoff)

	if err := d.repo.Outbox.Reschedule(ctx, event.ID, attempts, next, cause.Error()); err != nil {
		d.log.Error("Failed to reschedule outbox event", zap.Error(err))
	}
}
