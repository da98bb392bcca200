package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"branch-locator/internal/dto/request"
	"branch-locator/internal/mapsapi"
	"branch-locator/internal/usecase"
	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

type DirectionHandler struct {
	service usecase.DirectionService
	log     *zap.Logger
}

func NewDirectionHandler(service usecase.DirectionService, log *zap.Logger) *DirectionHandler {
	return &DirectionHandler{
		service: service,
		log:     log.With(zap.String("handler", "direction")),
	}
}

// GetDirections handles GET /directions?originLat=&originLng=&(branchId=|destLat=&destLng=)&vehicle= (public)
func (h *DirectionHandler) GetDirections(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	originLat, okLat := utils.ParseFloat(query.Get("originLat"))
	originLng, okLng := utils.ParseFloat(query.Get("originLng"))
	if !okLat || !okLng {
		utils.ResponseBadRequest(w, "originLat and originLng query parameters are required", nil)
		return
	}

	req := request.DirectionsRequest{
		OriginLat: originLat,
		OriginLng: originLng,
		BranchID:  utils.ParseInt(query.Get("branchId"), 0),
		Vehicle:   query.Get("vehicle"),
	}
	if req.BranchID == 0 {
		destLat, okLat := utils.ParseFloat(query.Get("destLat"))
		destLng, okLng := utils.ParseFloat(query.Get("destLng"))
		if !okLat || !okLng {
			utils.ResponseBadRequest(w, "branchId or destLat and destLng query parameters are required", nil)
			return
		}
		req.DestLat, req.DestLng = destLat, destLng
	}

	directions, err := h.service.Directions(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "get directions")
		return
	}

	utils.ResponseSuccess(w, "success", directions)
}

// Geocode handles GET /geocode?q= (public)
func (h *DirectionHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		utils.ResponseBadRequest(w, "q query parameter is required", nil)
		return
	}

	place, err := h.service.Geocode(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, err, "geocode")
		return
	}

	utils.ResponseSuccess(w, "success", place)
}

func (h *DirectionHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, mapsapi.ErrNotConfigured):
		h.log.Warn(operation+" unavailable", zap.Error(err))
		utils.ResponseUnavailable(w, "Map provider is not configured")

	case errors.Is(err, mapsapi.ErrNotFound), errors.Is(err, usecase.ErrBranchNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case strings.Contains(err.Error(), "validation failed"):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseBadGateway(w, "Map provider request failed")
	}
}
