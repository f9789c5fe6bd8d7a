package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"medpages/internal/dto/request"
	"medpages/internal/dto/response"
	"medpages/internal/usecase"
	"medpages/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// RequestOTP handles POST /api/request-otp
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req request.RequestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := utils.ValidateStruct(req); errs != nil {
		utils.ResponseBadRequest(w, utils.FormatValidationErrors(errs), errs)
		return
	}

	if err := h.service.RequestOTP(r.Context(), &req); err != nil {
		if errors.Is(err, usecase.ErrInvalidEmail) {
			utils.ResponseBadRequest(w, "Invalid email address", nil)
			return
		}
		h.log.Error("Failed to request OTP", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseJSON(w, http.StatusOK, response.RequestOTPResponse{Success: true})
}

// VerifyOTP handles POST /api/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := utils.ValidateStruct(req); errs != nil {
		utils.ResponseBadRequest(w, utils.FormatValidationErrors(errs), errs)
		return
	}

	resp, err := h.service.VerifyOTP(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidEmail),
			errors.Is(err, usecase.ErrInvalidCode),
			errors.Is(err, usecase.ErrCodeExpired),
			errors.Is(err, usecase.ErrCodeUsed):
			// One generic message so responses never reveal whether the
			// email has a pending code.
			utils.ResponseBadRequest(w, "Invalid or expired code", nil)
		default:
			h.log.Error("Failed to verify OTP", zap.Error(err))
			utils.ResponseInternalError(w, "Internal server error")
		}
		return
	}

	utils.ResponseJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		h.log.Error("Failed to logout", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseJSON(w, http.StatusOK, response.StatusUpdateResponse{Success: true})
}
