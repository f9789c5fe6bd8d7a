package cmd

import (
	"context"
	"fmt"

	"medpages/internal/data/entity"
	"medpages/internal/data/repository"
)

// RequeueFailed puts parked outbox events of one type (or all types) back
// into the pending state so the dispatcher picks them up again.
func RequeueFailed(ctx context.Context, repo *repository.Repository, eventType string) error {
	types := []string{entity.EventPagePublishedEmail, entity.EventRenderPageHTML}
	if eventType != "" {
		types = []string{eventType}
	}

	for _, et := range types {
		n, err := repo.Outbox.ResetFailed(ctx, et)
		if err != nil {
			return fmt.Errorf("requeue %s events: %w", et, err)
		}
		fmt.Printf("%s: %d event(s) requeued\n", et, n)
	}

	return nil
}
