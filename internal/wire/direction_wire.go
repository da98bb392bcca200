package wire

import (
	"branch-locator/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireDirection(r chi.Router, directionHandler *adaptor.DirectionHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /directions - Route preview from a point to a branch or a coordinate
	r.Get("/directions", directionHandler.GetDirections)

	// GET /geocode - Address search
	r.Get("/geocode", directionHandler.Geocode)
}
