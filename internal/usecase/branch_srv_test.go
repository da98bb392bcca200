package usecase

import (
	"context"
	"testing"

	"branch-locator/internal/data/entity"
	"branch-locator/internal/data/repository"
	"branch-locator/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func catalogueService(t *testing.T) BranchService {
	t.Helper()
	repo, err := repository.NewBranchRepository(zap.NewNop())
	require.NoError(t, err)
	return NewBranchService(repo, zap.NewNop())
}

func TestTimeSlots(t *testing.T) {
	cases := []struct {
		hours string
		first string
		last  string
		count int
	}{
		{"10:00 - 22:00", "10:00", "22:00", 25},
		{"9:30 - 21:30", "09:30", "21:30", 25},
		{"10:00 - 18:00", "10:00", "18:00", 17},
		{"8:00 - 00:00", "08:00", "23:30", 32},
	}
	for _, tc := range cases {
		t.Run(tc.hours, func(t *testing.T) {
			slots := TimeSlots(&entity.Branch{Hours: tc.hours})
			require.Len(t, slots, tc.count)
			assert.Equal(t, tc.first, slots[0])
			assert.Equal(t, tc.last, slots[len(slots)-1])
		})
	}

	assert.Nil(t, TimeSlots(&entity.Branch{Hours: "Cả ngày"}))
}

func TestBranchSlots(t *testing.T) {
	svc := catalogueService(t)
	ctx := context.Background()

	resp, err := svc.Slots(ctx, 1)
	require.NoError(t, err)
	assert.False(t, resp.Fallback)
	assert.Equal(t, "10:00", resp.Slots[0])

	_, err = svc.Slots(ctx, 9999)
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestBranchSlots_Fallback(t *testing.T) {
	repo, err := repository.NewBranchRepositoryFrom([]byte(`[{"id":7,"name":"Pop-up","hours":"Liên hệ"}]`), zap.NewNop())
	require.NoError(t, err)
	svc := NewBranchService(repo, zap.NewNop())

	resp, err := svc.Slots(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Equal(t, FallbackSlots, resp.Slots)
}

func TestBranchCities(t *testing.T) {
	cities, err := catalogueService(t).Cities(context.Background())
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(cities), 2)
	assert.Equal(t, "Hồ Chí Minh", cities[0].City)
	assert.Equal(t, 31, cities[0].Count)
	assert.Equal(t, "Hà Nội", cities[1].City)
	assert.Equal(t, 14, cities[1].Count)

	total := 0
	for _, c := range cities {
		total += c.Count
	}
	assert.Equal(t, 48, total)
}

func TestBranchList(t *testing.T) {
	svc := catalogueService(t)
	ctx := context.Background()

	t.Run("city filter ignores diacritics", func(t *testing.T) {
		page, err := svc.List(ctx, request.BranchQuery{City: "ha noi", PaginatedRequest: request.PaginatedRequest{PerPage: 100}})
		require.NoError(t, err)
		assert.EqualValues(t, 14, page.Pagination.Total)
		for _, b := range page.Data {
			assert.Equal(t, "Hà Nội", b.City)
		}
	})

	t.Run("folded search", func(t *testing.T) {
		page, err := svc.List(ctx, request.BranchQuery{Q: "ba trieu"})
		require.NoError(t, err)
		require.NotEmpty(t, page.Data)
		assert.Equal(t, 1, page.Data[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := svc.List(ctx, request.BranchQuery{PaginatedRequest: request.PaginatedRequest{Page: 5, PerPage: 10}})
		require.NoError(t, err)
		assert.Len(t, page.Data, 8)
		assert.Equal(t, 5, page.Pagination.TotalPages)

		page, err = svc.List(ctx, request.BranchQuery{PaginatedRequest: request.PaginatedRequest{Page: 9, PerPage: 10}})
		require.NoError(t, err)
		assert.Empty(t, page.Data)
		assert.NotNil(t, page.Data)
	})

	t.Run("unknown service", func(t *testing.T) {
		page, err := svc.List(ctx, request.BranchQuery{Service: "Giao hàng"})
		require.NoError(t, err)
		assert.EqualValues(t, 0, page.Pagination.Total)
	})
}

func TestBranchNearest(t *testing.T) {
	svc := catalogueService(t)

	out, err := svc.Nearest(context.Background(), request.NearestRequest{Lat: 21.0114912, Lng: 105.8499469, Limit: 3})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 1, out[0].ID)
	require.NotNil(t, out[0].Distance)
	assert.InDelta(t, 0, *out[0].Distance, 1)
	assert.LessOrEqual(t, *out[1].Distance, *out[2].Distance)
	assert.NotEmpty(t, out[1].DistanceLabel)

	_, err = svc.Nearest(context.Background(), request.NearestRequest{Lat: 91, Lng: 0, Limit: 3})
	assert.ErrorContains(t, err, "validation failed")
}

func TestBranchGet(t *testing.T) {
	svc := catalogueService(t)

	b, err := svc.Get(context.Background(), 45)
	require.NoError(t, err)
	assert.Equal(t, "9:30 - 21:30", b.Hours)

	_, err = svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, ErrBranchNotFound)
}
