package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"branch-locator/internal/dto/request"
	"branch-locator/internal/dto/response"
	"branch-locator/internal/usecase"
	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

const maxBookingBodyBytes = 64 << 10

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// Confirm handles POST /booking/confirm (public, rate limited)
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBookingBodyBytes)

	var req request.ConfirmBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.Warn("Booking body too large", zap.Int64("limit", tooLarge.Limit))
			utils.WriteJSON(w, http.StatusRequestEntityTooLarge, response.ErrorResponse{Error: "Request body too large"})
			return
		}
		h.log.Warn("Invalid booking body", zap.Error(err))
		utils.WriteJSON(w, http.StatusBadRequest, response.ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	resp, err := h.service.Confirm(r.Context(), &req)
	if err != nil {
		var verr *usecase.ValidationError
		if errors.As(err, &verr) {
			utils.WriteJSON(w, http.StatusBadRequest, response.ValidationErrorResponse{
				Error:  verr.Message,
				Kind:   string(verr.Kind),
				Fields: verr.Fields,
			})
			return
		}

		h.log.Error("Failed to confirm booking", zap.Error(err))
		utils.WriteJSON(w, http.StatusInternalServerError, response.ErrorResponse{
			Error:   "Internal server error",
			Details: err.Error(),
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}
