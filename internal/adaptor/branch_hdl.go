package adaptor

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"branch-locator/internal/dto/request"
	"branch-locator/internal/usecase"
	"branch-locator/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultNearestLimit = 5

type BranchHandler struct {
	service usecase.BranchService
	log     *zap.Logger
}

func NewBranchHandler(service usecase.BranchService, log *zap.Logger) *BranchHandler {
	return &BranchHandler{
		service: service,
		log:     log.With(zap.String("handler", "branch")),
	}
}

// GetBranches handles GET /branches (public)
func (h *BranchHandler) GetBranches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.BranchQuery{
		City:    query.Get("city"),
		Service: query.Get("service"),
		Q:       query.Get("q"),
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 100),
		},
	}

	branches, err := h.service.List(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "list branches")
		return
	}

	utils.ResponseSuccess(w, "success", branches)
}

// GetCities handles GET /branches/cities (public)
func (h *BranchHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.Cities(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list cities")
		return
	}

	utils.ResponseSuccess(w, "success", cities)
}

// GetNearest handles GET /branches/nearest?lat=&lng=&limit= (public)
func (h *BranchHandler) GetNearest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat, okLat := utils.ParseFloat(query.Get("lat"))
	lng, okLng := utils.ParseFloat(query.Get("lng"))
	if !okLat || !okLng {
		utils.ResponseBadRequest(w, "lat and lng query parameters are required", nil)
		return
	}

	req := request.NearestRequest{
		Lat:   lat,
		Lng:   lng,
		Limit: utils.ParseInt(query.Get("limit"), defaultNearestLimit),
	}

	branches, err := h.service.Nearest(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "find nearest branches")
		return
	}

	utils.ResponseSuccess(w, "success", branches)
}

// GetBranchByID handles GET /branches/{id} (public)
func (h *BranchHandler) GetBranchByID(w http.ResponseWriter, r *http.Request) {
	id, ok := branchID(w, r)
	if !ok {
		return
	}

	branch, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get branch")
		return
	}

	utils.ResponseSuccess(w, "success", branch)
}

// GetSlots handles GET /branches/{id}/slots (public)
func (h *BranchHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	id, ok := branchID(w, r)
	if !ok {
		return
	}

	slots, err := h.service.Slots(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get branch slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

func branchID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		utils.ResponseBadRequest(w, "Branch ID must be a positive number", nil)
		return 0, false
	}
	return id, true
}

func (h *BranchHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrBranchNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case strings.Contains(err.Error(), "validation failed"):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
