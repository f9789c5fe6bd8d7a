package cmd

import (
	"context"
	"fmt"

	"medpages/internal/data/entity"
	"medpages/internal/data/repository"
	"medpages/internal/render"

	"go.uber.org/zap"
)

// RegenerateAll re-renders the static HTML of every published page and
// prints a per-page outcome plus a summary. A single page failing does
// not stop the run; the error count is returned so the caller can pick
// the exit code.
func RegenerateAll(ctx context.Context, repo *repository.Repository, renderer *render.Renderer, log *zap.Logger) (int, error) {
	pages, err := repo.Page.ListByStatus(ctx, entity.StatusPublished)
	if err != nil {
		return 0, fmt.Errorf("list published pages: %w", err)
	}

	var failed int
	for i := range pages {
		page := &pages[i]

		path, err := renderer.Render(ctx, page)
		if err != nil {
			failed++
			log.Error("Failed to regenerate page",
				zap.Error(err),
				zap.String("subdomain", page.Subdomain),
			)
			fmt.Printf("FAIL  %s: %v\n", page.Subdomain, err)
			continue
		}

		fmt.Printf("OK    %s -> %s\n", page.Subdomain, path)
	}

	fmt.Printf("\nRegenerated %d of %d published pages (%d failed)\n",
		len(pages)-failed, len(pages), failed)

	return failed, nil
}

// RegenerateOne re-renders a single page looked up by subdomain. Unlike the
// bulk run it refuses drafts, so an operator can't accidentally publish the
// HTML of a page that was taken down.
func RegenerateOne(ctx context.Context, repo *repository.Repository, renderer *render.Renderer, log *zap.Logger, subdomain string) error {
	page, err := repo.Page.FindBySubdomain(ctx, subdomain)
	if err != nil {
		return fmt.Errorf("look up page: %w", err)
	}
	if page == nil {
		return fmt.Errorf("no page with subdomain %q", subdomain)
	}
	if page.Status != entity.StatusPublished {
		return fmt.Errorf("page %q is %s, only published pages are rendered", subdomain, page.Status)
	}

	path, err := renderer.Render(ctx, page)
	if err != nil {
		log.Error("Failed to regenerate page",
			zap.Error(err),
			zap.String("subdomain", page.Subdomain),
		)
		return fmt.Errorf("render %q: %w", subdomain, err)
	}

	fmt.Printf("OK    %s -> %s\n", page.Subdomain, path)
	return nil
}
