package adaptor

import (
	"errors"
	"fmt"
	"net/http"

	"branch-locator/internal/dto/response"
	"branch-locator/internal/notify"
	"branch-locator/internal/usecase"
	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

type DiagnosticHandler struct {
	service usecase.DiagnosticService
	log     *zap.Logger
}

func NewDiagnosticHandler(service usecase.DiagnosticService, log *zap.Logger) *DiagnosticHandler {
	return &DiagnosticHandler{
		service: service,
		log:     log.With(zap.String("handler", "diagnostic")),
	}
}

// TestEmail handles GET /test-email (admin key when configured)
func (h *DiagnosticHandler) TestEmail(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.EmailTest(r.Context())
	if errors.Is(err, usecase.ErrEmailNotConfigured) {
		utils.WriteJSON(w, http.StatusBadRequest, resp)
		return
	}
	if err != nil {
		h.log.Error("Email test failed", zap.Error(err))
		utils.WriteJSON(w, http.StatusInternalServerError, response.ErrorResponse{Error: "Internal server error", Details: err.Error()})
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// TestRefresh handles GET /zalo/test-refresh (admin key when configured)
func (h *DiagnosticHandler) TestRefresh(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.RefreshTest(r.Context())
	if err != nil {
		h.handleRefreshError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *DiagnosticHandler) handleRefreshError(w http.ResponseWriter, err error) {
	var httpErr *notify.HTTPError

	switch {
	case errors.Is(err, notify.ErrNoRefreshToken):
		h.log.Warn("Refresh test without refresh token")
		utils.WriteJSON(w, http.StatusBadRequest, response.ErrorResponse{
			Error: "ZALO_OA_REFRESH_TOKEN is not configured in environment variables",
		})

	case errors.As(err, &httpErr):
		h.log.Warn("Refresh test rejected upstream", zap.Int("status", httpErr.Status))
		status := httpErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		utils.WriteJSON(w, status, response.ErrorResponse{
			Error:   fmt.Sprintf("Failed to refresh token: HTTP %d", httpErr.Status),
			Details: httpErr.Body,
		})

	case errors.Is(err, notify.ErrNoAccessToken):
		h.log.Warn("Refresh test got no access token")
		utils.WriteJSON(w, http.StatusInternalServerError, response.ErrorResponse{
			Error: "No access_token in response",
		})

	default:
		h.log.Error("Refresh test failed", zap.Error(err))
		utils.WriteJSON(w, http.StatusInternalServerError, response.ErrorResponse{
			Error:   "Internal server error",
			Details: err.Error(),
		})
	}
}
