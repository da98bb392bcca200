package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"branch-locator/internal/data/entity"
	"branch-locator/internal/data/repository"
	"branch-locator/internal/dto/request"
	"branch-locator/internal/dto/response"
	"branch-locator/pkg/geo"
	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

var ErrBranchNotFound = errors.New("branch not found")

const slotStep = 30 // minutes

// FallbackSlots is offered when a branch's opening hours cannot be read.
var FallbackSlots = []string{
	"09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30", "13:00", "13:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30", "18:00",
	"18:30", "19:00", "19:30", "20:00", "20:30", "21:00", "21:30",
}

type BranchService interface {
	List(ctx context.Context, q request.BranchQuery) (*response.PaginatedResponse[response.BranchResponse], error)
	Cities(ctx context.Context) ([]response.CityResponse, error)
	Nearest(ctx context.Context, req request.NearestRequest) ([]response.BranchResponse, error)
	Get(ctx context.Context, id int) (*response.BranchResponse, error)
	Slots(ctx context.Context, id int) (*response.SlotsResponse, error)
}

type branchService struct {
	repo repository.BranchRepository
	log  *zap.Logger
}

func NewBranchService(repo repository.BranchRepository, log *zap.Logger) BranchService {
	return &branchService{
		repo: repo,
		log:  log.With(zap.String("service", "branch")),
	}
}

func matchesQuery(b *entity.Branch, folded string) bool {
	if folded == "" {
		return true
	}
	return strings.Contains(utils.FoldVietnamese(b.Name), folded) ||
		strings.Contains(utils.FoldVietnamese(b.Address), folded)
}

func (s *branchService) List(ctx context.Context, q request.BranchQuery) (*response.PaginatedResponse[response.BranchResponse], error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	city := utils.FoldVietnamese(q.City)
	folded := utils.FoldVietnamese(q.Q)

	var matched []response.BranchResponse
	for _, b := range all {
		if city != "" && utils.FoldVietnamese(b.City) != city {
			continue
		}
		if q.Service != "" && !b.HasService(q.Service) {
			continue
		}
		if !matchesQuery(b, folded) {
			continue
		}
		matched = append(matched, response.BranchToResponse(b))
	}

	start, end := q.Window(len(matched))
	return response.NewPaginatedResponse(matched[start:end], q.PageNumber(), q.Limit(), int64(len(matched))), nil
}

// Cities returns each city with its branch count, largest first.
func (s *branchService) Cities(ctx context.Context) ([]response.CityResponse, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	counts := map[string]int{}
	for _, b := range all {
		counts[b.City]++
	}

	cities := make([]response.CityResponse, 0, len(counts))
	for city, n := range counts {
		cities = append(cities, response.CityResponse{City: city, Count: n})
	}
	sort.Slice(cities, func(i, j int) bool {
		if cities[i].Count != cities[j].Count {
			return cities[i].Count > cities[j].Count
		}
		return cities[i].City < cities[j].City
	})
	return cities, nil
}

func (s *branchService) Nearest(ctx context.Context, req request.NearestRequest) ([]response.BranchResponse, error) {
	if errs := utils.ValidateStructOrdered(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("nearest branches: %w", err)
	}

	from := geo.Point{Lat: req.Lat, Lng: req.Lng}
	out := make([]response.BranchResponse, 0, len(all))
	for _, b := range all {
		d := geo.Distance(from, b.Point())
		r := response.BranchToResponse(b)
		r.Distance = &d
		r.DistanceLabel = geo.FormatDistance(d)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].Distance < *out[j].Distance })

	if len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, nil
}

func (s *branchService) find(ctx context.Context, id int) (*entity.Branch, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find branch %d: %w", id, err)
	}
	if b == nil {
		return nil, fmt.Errorf("branch %d: %w", id, ErrBranchNotFound)
	}
	return b, nil
}

func (s *branchService) Get(ctx context.Context, id int) (*response.BranchResponse, error) {
	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	r := response.BranchToResponse(b)
	return &r, nil
}

func (s *branchService) Slots(ctx context.Context, id int) (*response.SlotsResponse, error) {
	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	slots := TimeSlots(b)
	resp := &response.SlotsResponse{BranchID: b.ID, Hours: b.Hours, Slots: slots}
	if slots == nil {
		s.log.Warn("Unreadable opening hours, using fallback slots", zap.Int("branch_id", b.ID), zap.String("hours", b.Hours))
		resp.Slots = FallbackSlots
		resp.Fallback = true
	}
	return resp, nil
}

// TimeSlots lists start times every 30 minutes from opening to closing
// inclusive. Past midnight closings are cut at 23:30. It returns nil when the
// hours cannot be parsed.
func TimeSlots(b *entity.Branch) []string {
	open, closing, ok := b.OpeningHours()
	if !ok {
		return nil
	}

	var slots []string
	for t := open; t <= closing && t < 24*60; t += slotStep {
		slots = append(slots, fmt.Sprintf("%02d:%02d", t/60, t%60))
	}
	return slots
}
