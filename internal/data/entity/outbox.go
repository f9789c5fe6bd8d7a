package entity

import (
	"encoding/json"
	"time"
)

type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxProcessing OutboxStatus = "processing"
	OutboxDone       OutboxStatus = "done"
	OutboxFailed     OutboxStatus = "failed"
)

// Event types dispatched by the outbox worker.
const (
	EventPagePublishedEmail = "email.page_published"
	EventRenderPageHTML     = "render.page_html"
)

// OutboxEvent is a durable side-effect record written in the same
// transaction as the state change that caused it. A dispatcher claims due
// events (pending, or processing past their lease) and retries them with
// exponential backoff until done or max attempts.
type OutboxEvent struct {
	BaseSimple
	EventType     string          `db:"event_type"`
	Payload       json.RawMessage `db:"payload"`
	Status        OutboxStatus    `db:"status"`
	Attempts      int             `db:"attempts"`
	NextAttemptAt time.Time       `db:"next_attempt_at"`
	LastError     *string         `db:"last_error"`
}

// PagePayload is the payload carried by both publish-side-effect events.
type PagePayload struct {
	PageID string `json:"page_id"`
}
