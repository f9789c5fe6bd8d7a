package wire

import (
	"medpages/internal/adaptor"
	"medpages/internal/data/repository"
	"medpages/pkg/middleware"
	"medpages/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// Public routes (no auth middleware)
	r.Post("/api/request-otp", authHandler.RequestOTP)
	r.Post("/api/verify-otp", authHandler.VerifyOTP)

	// Logout needs a live session to revoke
	r.With(middleware.AuthSession(repo.Session, log)).Post("/api/logout", authHandler.Logout)
}
