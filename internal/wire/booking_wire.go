package wire

import (
	"branch-locator/internal/adaptor"
	"branch-locator/pkg/middleware"
	"branch-locator/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	limiter := middleware.NewRateLimiter(config.RateLimit.PerMinute)

	// ==================== PUBLIC ROUTES (rate limited) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter, log))

		// POST /booking/confirm - Submit a booking, fan out notifications
		r.Post("/booking/confirm", bookingHandler.Confirm)

		// Same handler under the path the storefront widget posts to
		r.Post("/api/booking/confirm", bookingHandler.Confirm)
	})
}
