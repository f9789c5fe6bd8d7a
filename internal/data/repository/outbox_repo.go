package repository

import (
	"context"
	"fmt"
	"time"

	"medpages/internal/data/entity"
	"medpages/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OutboxRepository interface {
	Enqueue(ctx context.Context, event *entity.OutboxEvent) error
	ClaimDue(ctx context.Context, now time.Time, leaseUntil time.Time, limit int) ([]entity.OutboxEvent, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
	Reschedule(ctx context.Context, id uuid.UUID, attempts int, nextAttemptAt time.Time, lastError string) error
	ResetFailed(ctx context.Context, eventType string) (int64, error)
}

type outboxRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewOutboxRepository(db database.Querier, log *zap.Logger) OutboxRepository {
	return &outboxRepository{
		db:  db,
		log: log.With(zap.String("repository", "outbox")),
	}
}

func (r *outboxRepository) Enqueue(ctx context.Context, event *entity.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, attempts,
		                           next_attempt_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.Attempts,
		event.NextAttemptAt,
		event.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to enqueue outbox event",
			zap.Error(err),
			zap.String("event_type", event.EventType),
		)
		return fmt.Errorf("enqueue %s event: %w", event.EventType, err)
	}

	return nil
}

// ClaimDue atomically moves due events to 'processing' and returns them.
// The single UPDATE is the claim: concurrent dispatchers skip rows locked
// by each other's in-flight claim, and a claimed row stays invisible until
// its lease (stored in next_attempt_at) expires. A dispatcher that crashes
// mid-handling therefore only delays the event, never strands it.
func (r *outboxRepository) ClaimDue(ctx context.Context, now time.Time, leaseUntil time.Time, limit int) ([]entity.OutboxEvent, error) {
	query := `
		UPDATE outbox_events
		SET status = 'processing', next_attempt_at = $2
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status IN ('pending', 'processing') AND next_attempt_at <= $1
			ORDER BY next_attempt_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event_type, payload, status, attempts,
		          next_attempt_at, last_error, created_at
	`

	rows, err := r.db.Query(ctx, query, now, leaseUntil, limit)
	if err != nil {
		r.log.Error("Failed to claim due outbox events", zap.Error(err))
		return nil, fmt.Errorf("claim due outbox events: %w", err)
	}
	defer rows.Close()

	var events []entity.OutboxEvent
	for rows.Next() {
		var event entity.OutboxEvent
		err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.Payload,
			&event.Status,
			&event.Attempts,
			&event.NextAttemptAt,
			&event.LastError,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox events: %w", err)
	}

	return events, nil
}

func (r *outboxRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET status = 'done', last_error = NULL
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark outbox event done",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("mark event %s done: %w", id.String(), err)
	}

	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	query := `
		UPDATE outbox_events
		SET status = 'failed', last_error = $2
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, id, lastError)
	if err != nil {
		r.log.Error("Failed to mark outbox event failed",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("mark event %s failed: %w", id.String(), err)
	}

	return nil
}

func (r *outboxRepository) Reschedule(ctx context.Context, id uuid.UUID, attempts int, nextAttemptAt time.Time, lastError string) error {
	query := `
		UPDATE outbox_events
		SET status = 'pending', attempts = $2, next_attempt_at = $3, last_error = $4
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, id, attempts, nextAttemptAt, lastError)
	if err != nil {
		r.log.Error("Failed to reschedule outbox event",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("reschedule event %s: %w", id.String(), err)
	}

	return nil
}

// ResetFailed requeues failed events of one type so an operator can re-drive
// side effects after an outage.
func (r *outboxRepository) ResetFailed(ctx context.Context, eventType string) (int64, error) {
	query := `
		UPDATE outbox_events
		SET status = 'pending', attempts = 0, next_attempt_at = NOW()
		WHERE status = 'failed' AND event_type = $1
	`

	result, err := r.db.Exec(ctx, query, eventType)
	if err != nil {
		r.log.Error("Failed to reset failed outbox events",
			zap.Error(err),
			zap.String("event_type", eventType),
		)
		return 0, fmt.Errorf("reset failed %s events: %w", eventType, err)
	}

	return result.RowsAffected(), nil
}
