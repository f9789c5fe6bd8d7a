package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"medpages/internal/dto/request"
	"medpages/internal/gateway"
	"medpages/internal/usecase"
	"medpages/pkg/utils"

	"go.uber.org/zap"
)

type ContentHandler struct {
	service usecase.ContentService
	log     *zap.Logger
}

func NewContentHandler(service usecase.ContentService, log *zap.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		log:     log,
	}
}

// Generate handles POST /api/generate-content
func (h *ContentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := utils.ValidateStruct(req); errs != nil {
		utils.ResponseBadRequest(w, utils.FormatValidationErrors(errs), errs)
		return
	}

	result, err := h.service.Generate(r.Context(), &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	utils.ResponseJSON(w, http.StatusOK, result)
}

// Provider conditions come back as 200 with an error field so the wizard
// can show a friendly message instead of a failed request.
func (h *ContentHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidContentType):
		utils.ResponseBadRequest(w, "Invalid content request type", nil)
	case errors.Is(err, usecase.ErrMissingBriefing):
		utils.ResponseBadRequest(w, "Briefing is required", nil)
	case errors.Is(err, usecase.ErrMissingInstruction):
		utils.ResponseBadRequest(w, "Instruction is required", nil)
	case errors.Is(err, gateway.ErrRateLimited):
		utils.ResponseJSON(w, http.StatusOK, utils.ErrorBody{Error: "rate_limited"})
	case errors.Is(err, gateway.ErrPaymentRequired):
		utils.ResponseJSON(w, http.StatusOK, utils.ErrorBody{Error: "payment_required"})
	case errors.Is(err, gateway.ErrUpstream):
		h.log.Warn("Content provider error", zap.Error(err))
		utils.ResponseJSON(w, http.StatusOK, utils.ErrorBody{Error: "generation_failed"})
	case errors.Is(err, usecase.ErrMalformedOutput):
		utils.ResponseJSON(w, http.StatusOK, utils.ErrorBody{Error: "malformed_model_output"})
	default:
		h.log.Error("Content generation failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
