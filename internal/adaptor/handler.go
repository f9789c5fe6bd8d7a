package adaptor

import (
	"medpages/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Page    *PageHandler
	Domain  *DomainHandler
	Content *ContentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Page:    NewPageHandler(service.Page, log),
		Domain:  NewDomainHandler(service.Domain, log),
		Content: NewContentHandler(service.Content, log),
	}
}
