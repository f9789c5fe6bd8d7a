package wire

import (
	"medpages/internal/adaptor"
	"medpages/internal/data/repository"
	"medpages/pkg/middleware"
	"medpages/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.AdminOnly(repo.User, repo.UserRole, log))

		r.Post("/api/admin/pages", handler.Page.List)
		r.Get("/api/admin/pages/{id}", handler.Page.Get)
		r.Patch("/api/admin/pages/{id}/status", handler.Page.UpdateStatus)
	})
}
