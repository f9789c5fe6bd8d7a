package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"medpages/internal/data/entity"
	"medpages/internal/dto/request"
	"medpages/internal/dto/response"
	"medpages/internal/usecase"
	"medpages/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PageHandler struct {
	service usecase.PageService
	log     *zap.Logger
}

func NewPageHandler(service usecase.PageService, log *zap.Logger) *PageHandler {
	return &PageHandler{
		service: service,
		log:     log,
	}
}

// List handles POST /api/admin/pages
func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("Failed to list pages", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseJSON(w, http.StatusOK, response.PagesToResponse(pages))
}

// Get handles GET /api/admin/pages/{id}
func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid page ID", nil)
		return
	}

	page, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrPageNotFound) {
			utils.ResponseNotFound(w, "Page not found")
			return
		}
		h.log.Error("Failed to get page", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	resp := response.PageToResponse(page)
	utils.ResponseJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /api/admin/pages/{id}/status
func (h *PageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid page ID", nil)
		return
	}

	var req request.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := utils.ValidateStruct(req); errs != nil {
		utils.ResponseBadRequest(w, utils.FormatValidationErrors(errs), errs)
		return
	}

	err = h.service.UpdateStatus(r.Context(), id, entity.PageStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPageNotFound):
			utils.ResponseNotFound(w, "Page not found")
		case errors.Is(err, usecase.ErrInvalidStatus):
			utils.ResponseBadRequest(w, "Invalid status", nil)
		default:
			h.log.Error("Failed to update page status",
				zap.Error(err), zap.String("page_id", id.String()))
			utils.ResponseInternalError(w, "Internal server error")
		}
		return
	}

	utils.ResponseJSON(w, http.StatusOK, response.StatusUpdateResponse{Success: true})
}
