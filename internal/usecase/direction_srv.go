package usecase

import (
	"context"
	"fmt"

	"branch-locator/internal/data/repository"
	"branch-locator/internal/dto/request"
	"branch-locator/internal/dto/response"
	"branch-locator/internal/mapsapi"
	"branch-locator/pkg/geo"
	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

// MapProvider is implemented by mapsapi.Client.
type MapProvider interface {
	Route(ctx context.Context, origin, dest geo.Point, vehicle string) (*mapsapi.Route, error)
	Geocode(ctx context.Context, query string) (*mapsapi.Place, error)
}

type DirectionService interface {
	Directions(ctx context.Context, req request.DirectionsRequest) (*response.DirectionsResponse, error)
	Geocode(ctx context.Context, query string) (*response.GeocodeResponse, error)
}

type directionService struct {
	maps     MapProvider
	branches repository.BranchRepository
	log      *zap.Logger
}

func NewDirectionService(maps MapProvider, branches repository.BranchRepository, log *zap.Logger) DirectionService {
	return &directionService{
		maps:     maps,
		branches: branches,
		log:      log.With(zap.String("service", "direction")),
	}
}

func (s *directionService) Directions(ctx context.Context, req request.DirectionsRequest) (*response.DirectionsResponse, error) {
	if req.Vehicle == "" {
		req.Vehicle = "car"
	}

	resp := &response.DirectionsResponse{
		Origin:      geo.Point{Lat: req.OriginLat, Lng: req.OriginLng},
		Destination: geo.Point{Lat: req.DestLat, Lng: req.DestLng},
		Vehicle:     req.Vehicle,
	}

	if req.BranchID > 0 {
		b, err := s.branches.FindByID(ctx, req.BranchID)
		if err != nil {
			return nil, fmt.Errorf("find branch %d: %w", req.BranchID, err)
		}
		if b == nil {
			return nil, fmt.Errorf("branch %d: %w", req.BranchID, ErrBranchNotFound)
		}
		req.DestLat, req.DestLng = b.Lat, b.Lng
		resp.Destination = b.Point()
		br := response.BranchToResponse(b)
		resp.Branch = &br
	}

	if errs := utils.ValidateStructOrdered(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	route, err := s.maps.Route(ctx, resp.Origin, resp.Destination, req.Vehicle)
	if err != nil {
		s.log.Warn("Route lookup failed", zap.Error(err))
		return nil, err
	}
	resp.Route = route
	return resp, nil
}

func (s *directionService) Geocode(ctx context.Context, query string) (*response.GeocodeResponse, error) {
	place, err := s.maps.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}
	return place, nil
}
