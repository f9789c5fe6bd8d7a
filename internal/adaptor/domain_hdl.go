package adaptor

import (
	"encoding/json"
	"net/http"

	"medpages/internal/dto/request"
	"medpages/internal/dto/response"
	"medpages/internal/usecase"
	"medpages/pkg/utils"

	"go.uber.org/zap"
)

type DomainHandler struct {
	service usecase.DomainService
	log     *zap.Logger
}

func NewDomainHandler(service usecase.DomainService, log *zap.Logger) *DomainHandler {
	return &DomainHandler{
		service: service,
		log:     log,
	}
}

// Check handles POST /api/check-domain
func (h *DomainHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req request.CheckDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := utils.ValidateStruct(req); errs != nil {
		utils.ResponseBadRequest(w, utils.FormatValidationErrors(errs), errs)
		return
	}

	resp, err := h.service.Check(r.Context(), req.Domain)
	if err != nil {
		h.log.Error("Domain check failed",
			zap.Error(err), zap.String("domain", req.Domain))
		utils.ResponseJSON(w, http.StatusInternalServerError, response.CheckDomainResponse{
			Available: false,
			Domain:    req.Domain,
			Error:     "could not verify domain availability",
		})
		return
	}

	utils.ResponseJSON(w, http.StatusOK, resp)
}
