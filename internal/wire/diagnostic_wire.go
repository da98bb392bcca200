package wire

import (
	"branch-locator/internal/adaptor"
	"branch-locator/pkg/middleware"
	"branch-locator/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireDiagnostic(
	r chi.Router,
	diagnosticHandler *adaptor.DiagnosticHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	// Open when ADMIN_KEY_HASH is unset
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminKey(config.Admin.KeyHash, log))

		// GET /test-email - Email config flags, verify, test send
		r.Get("/test-email", diagnosticHandler.TestEmail)

		// GET /zalo/test-refresh - Forced token refresh plus operator mail
		r.Get("/zalo/test-refresh", diagnosticHandler.TestRefresh)
	})
}
