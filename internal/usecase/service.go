package usecase

import (
	"medpages/internal/data/repository"
	"medpages/internal/gateway"
	"medpages/internal/render"
	"medpages/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Page    PageService
	Domain  DomainService
	Content ContentService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	mailer := gateway.NewMailer(config.Email)
	rdap := gateway.NewRDAPClient(config.Domain.RDAPBase, log)
	doh := gateway.NewDoHClient(config.Domain.DoHURL, log)
	gemini := gateway.NewGeminiClient(config.Gemini, log)

	return &Service{
		Auth:    NewAuthService(repo, mailer, config, log),
		Page:    NewPageService(repo, log),
		Domain:  NewDomainService(rdap, doh, config.Domain.Suffix, log),
		Content: NewContentService(gemini, log),
	}
}

// NewDispatcher builds the outbox worker with the same collaborators the
// request path uses.
func NewDispatcher(repo *repository.Repository, renderer *render.Renderer, config *utils.Config, log *zap.Logger) *OutboxDispatcher {
	mailer := gateway.NewMailer(config.Email)
	return NewOutboxDispatcher(repo, mailer, renderer, config.Outbox, config.Domain.Suffix, log)
}
