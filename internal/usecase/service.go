package usecase

import (
	"branch-locator/internal/data/repository"
	"branch-locator/pkg/clock"
	"branch-locator/pkg/metrics"
	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

// Dependencies are the collaborators built outside the usecase layer.
type Dependencies struct {
	Channels Channels
	Email    EmailDiagnostics
	Tokens   TokenRefresher
	Maps     MapProvider
	Clock    clock.Clock
	Metrics  *metrics.BookingMetrics
}

type Service struct {
	Booking    BookingService
	Diagnostic DiagnosticService
	Branch     BranchService
	Direction  DirectionService
}

func NewService(repo *repository.Repository, deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Booking:    NewBookingService(deps.Channels, repo.Branch, deps.Clock, deps.Metrics, log),
		Diagnostic: NewDiagnosticService(deps.Email, config.Email, deps.Tokens, deps.Clock, log),
		Branch:     NewBranchService(repo.Branch, log),
		Direction:  NewDirectionService(deps.Maps, repo.Branch, log),
	}
}
