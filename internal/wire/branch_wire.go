package wire

import (
	"branch-locator/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBranch(r chi.Router, branchHandler *adaptor.BranchHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/branches", func(r chi.Router) {
		r.Get("/", branchHandler.GetBranches)        // ?city=&service=&q=&page=&per_page=
		r.Get("/cities", branchHandler.GetCities)    // cities with branch counts
		r.Get("/nearest", branchHandler.GetNearest)  // ?lat=&lng=&limit=
		r.Get("/{id}", branchHandler.GetBranchByID)  // one branch
		r.Get("/{id}/slots", branchHandler.GetSlots) // 30 minute booking slots
	})
}
