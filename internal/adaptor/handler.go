package adaptor

import (
	"branch-locator/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking    *BookingHandler
	Diagnostic *DiagnosticHandler
	Branch     *BranchHandler
	Direction  *DirectionHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:    NewBookingHandler(service.Booking, log),
		Diagnostic: NewDiagnosticHandler(service.Diagnostic, log),
		Branch:     NewBranchHandler(service.Branch, log),
		Direction:  NewDirectionHandler(service.Direction, log),
	}
}
