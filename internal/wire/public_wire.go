package wire

import (
	"medpages/internal/adaptor"
	"medpages/internal/data/repository"
	"medpages/pkg/middleware"
	"medpages/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wirePublic mounts the wizard endpoints. They need a logged-in user but
// not the admin role.
func wirePublic(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/api/check-domain", handler.Domain.Check)
		r.Post("/api/generate-content", handler.Content.Generate)
	})
}
