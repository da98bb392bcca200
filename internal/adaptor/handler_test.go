package adaptor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"branch-locator/internal/data/entity"
	"branch-locator/internal/data/repository"
	"branch-locator/internal/dto/request"
	"branch-locator/internal/dto/response"
	"branch-locator/internal/mapsapi"
	"branch-locator/internal/notify"
	"branch-locator/internal/usecase"
	"branch-locator/pkg/geo"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBookingService struct {
	resp *response.BookingConfirmResponse
	err  error
	got  *request.ConfirmBookingRequest
}

func (f *fakeBookingService) Confirm(ctx context.Context, req *request.ConfirmBookingRequest) (*response.BookingConfirmResponse, error) {
	f.got = req
	return f.resp, f.err
}

type fakeDiagnosticService struct {
	email      *response.EmailTestResponse
	emailErr   error
	refresh    *response.TokenRefreshResponse
	refreshErr error
}

func (f *fakeDiagnosticService) EmailTest(ctx context.Context) (*response.EmailTestResponse, error) {
	return f.email, f.emailErr
}

func (f *fakeDiagnosticService) RefreshTest(ctx context.Context) (*response.TokenRefreshResponse, error) {
	return f.refresh, f.refreshErr
}

type stubMaps struct {
	err error
}

func (s stubMaps) Route(ctx context.Context, origin, dest geo.Point, vehicle string) (*mapsapi.Route, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &mapsapi.Route{Distance: 900, Points: []geo.Point{origin, dest}}, nil
}

func (s stubMaps) Geocode(ctx context.Context, query string) (*mapsapi.Place, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &mapsapi.Place{Lat: 10.77, Lng: 106.7, Label: query, Source: "nominatim"}, nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func serve(h http.HandlerFunc, method, pattern, target string, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBookingHandler_Confirm(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		h := NewBookingHandler(&fakeBookingService{}, zap.NewNop())
		rec := serve(h.Confirm, http.MethodPost, "/booking/confirm", "/booking/confirm", "{not json")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[response.ErrorResponse](t, rec)
		assert.False(t, body.Success)
		assert.Equal(t, "Invalid JSON body", body.Error)
	})

	t.Run("oversized body", func(t *testing.T) {
		svc := &fakeBookingService{}
		h := NewBookingHandler(svc, zap.NewNop())
		big := `{"customerName":"` + strings.Repeat("a", maxBookingBodyBytes+1) + `"}`
		rec := serve(h.Confirm, http.MethodPost, "/booking/confirm", "/booking/confirm", big)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		body := decode[response.ErrorResponse](t, rec)
		assert.Equal(t, "Request body too large", body.Error)
		assert.Nil(t, svc.got, "service is not reached")
	})

	t.Run("validation error", func(t *testing.T) {
		svc := &fakeBookingService{err: &usecase.ValidationError{
			Kind:    usecase.MissingField,
			Fields:  []string{"customerName", "bookingTime"},
			Message: "Missing required fields: customerName, bookingTime",
		}}
		h := NewBookingHandler(svc, zap.NewNop())
		rec := serve(h.Confirm, http.MethodPost, "/booking/confirm", "/booking/confirm", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[response.ValidationErrorResponse](t, rec)
		assert.False(t, body.Success)
		assert.Equal(t, "Missing required fields: customerName, bookingTime", body.Error)
		assert.Equal(t, "MissingField", body.Kind)
		assert.Equal(t, []string{"customerName", "bookingTime"}, body.Fields)
	})

	t.Run("accepted", func(t *testing.T) {
		svc := &fakeBookingService{resp: &response.BookingConfirmResponse{
			Success:     true,
			BookingID:   "BOOK-20240114-093000-0042",
			ZaloDetails: entity.ChatDetails{Attempted: false},
		}}
		h := NewBookingHandler(svc, zap.NewNop())
		rec := serve(h.Confirm, http.MethodPost, "/booking/confirm", "/booking/confirm",
			`{"customerName":"An","customerPhone":"0912345678","branchName":"X","bookingDate":"2024-01-15","bookingTime":"14:00","bookingCustomer":2}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		body := decode[map[string]any](t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "BOOK-20240114-093000-0042", body["bookingId"])
		assert.Contains(t, body, "emailDetails")
		assert.Contains(t, body, "gasDetails")

		require.NotNil(t, svc.got)
		assert.Equal(t, request.FlexString("2"), svc.got.BookingCustomer)
	})

	t.Run("unexpected error", func(t *testing.T) {
		h := NewBookingHandler(&fakeBookingService{err: fmt.Errorf("boom")}, zap.NewNop())
		rec := serve(h.Confirm, http.MethodPost, "/booking/confirm", "/booking/confirm", `{}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode[response.ErrorResponse](t, rec)
		assert.Equal(t, "Internal server error", body.Error)
		assert.Equal(t, "boom", body.Details)
	})
}

func TestDiagnosticHandler_TestEmail(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		svc := &fakeDiagnosticService{
			email:    &response.EmailTestResponse{Error: "Email not configured"},
			emailErr: usecase.ErrEmailNotConfigured,
		}
		h := NewDiagnosticHandler(svc, zap.NewNop())
		rec := serve(h.TestEmail, http.MethodGet, "/test-email", "/test-email", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Email not configured", body["error"])
		assert.Contains(t, body, "config")
	})

	t.Run("report", func(t *testing.T) {
		svc := &fakeDiagnosticService{email: &response.EmailTestResponse{Success: true, Message: "ok"}}
		h := NewDiagnosticHandler(svc, zap.NewNop())
		rec := serve(h.TestEmail, http.MethodGet, "/test-email", "/test-email", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decode[map[string]any](t, rec)["success"])
	})
}

func TestDiagnosticHandler_TestRefresh(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
		details any
	}{
		{
			name:    "no refresh token",
			err:     notify.ErrNoRefreshToken,
			status:  http.StatusBadRequest,
			message: "ZALO_OA_REFRESH_TOKEN is not configured in environment variables",
		},
		{
			name:    "upstream rejected",
			err:     fmt.Errorf("zalo refresh: %w", &notify.HTTPError{Status: 401, Body: `{"error":-14014}`}),
			status:  http.StatusUnauthorized,
			message: "Failed to refresh token: HTTP 401",
			details: `{"error":-14014}`,
		},
		{
			name:    "no access token",
			err:     fmt.Errorf("zalo refresh: %w", notify.ErrNoAccessToken),
			status:  http.StatusInternalServerError,
			message: "No access_token in response",
		},
		{
			name:    "other",
			err:     fmt.Errorf("dial tcp: timeout"),
			status:  http.StatusInternalServerError,
			message: "Internal server error",
			details: "dial tcp: timeout",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewDiagnosticHandler(&fakeDiagnosticService{refreshErr: tc.err}, zap.NewNop())
			rec := serve(h.TestRefresh, http.MethodGet, "/zalo/test-refresh", "/zalo/test-refresh", "")

			assert.Equal(t, tc.status, rec.Code)
			body := decode[response.ErrorResponse](t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tc.message, body.Error)
			assert.Equal(t, tc.details, body.Details)
		})
	}

	t.Run("success", func(t *testing.T) {
		svc := &fakeDiagnosticService{refresh: &response.TokenRefreshResponse{
			Success:   true,
			TokenInfo: response.TokenInfo{AccessToken: "abcdefghijklmnopqrst...", ExpiresIn: 90000},
		}}
		h := NewDiagnosticHandler(svc, zap.NewNop())
		rec := serve(h.TestRefresh, http.MethodGet, "/zalo/test-refresh", "/zalo/test-refresh", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode[response.TokenRefreshResponse](t, rec)
		assert.Equal(t, "abcdefghijklmnopqrst...", body.TokenInfo.AccessToken)
	})
}

func branchHandler(t *testing.T) *BranchHandler {
	t.Helper()
	repo, err := repository.NewBranchRepository(zap.NewNop())
	require.NoError(t, err)
	return NewBranchHandler(usecase.NewBranchService(repo, zap.NewNop()), zap.NewNop())
}

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func TestBranchHandler(t *testing.T) {
	h := branchHandler(t)

	t.Run("list by city", func(t *testing.T) {
		rec := serve(h.GetBranches, http.MethodGet, "/branches", "/branches?city=H%C3%A0%20N%E1%BB%99i", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode[envelope[response.PaginatedResponse[response.BranchResponse]]](t, rec)
		assert.True(t, body.Status)
		assert.EqualValues(t, 14, body.Data.Pagination.Total)
		assert.Len(t, body.Data.Data, 14)
	})

	t.Run("cities", func(t *testing.T) {
		rec := serve(h.GetCities, http.MethodGet, "/branches/cities", "/branches/cities", "")
		body := decode[envelope[[]response.CityResponse]](t, rec)
		require.NotEmpty(t, body.Data)
		assert.Equal(t, "Hồ Chí Minh", body.Data[0].City)
	})

	t.Run("nearest", func(t *testing.T) {
		rec := serve(h.GetNearest, http.MethodGet, "/branches/nearest", "/branches/nearest?lat=21.0114912&lng=105.8499469&limit=2", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode[envelope[[]response.BranchResponse]](t, rec)
		require.Len(t, body.Data, 2)
		assert.Equal(t, 1, body.Data[0].ID)
	})

	t.Run("nearest without coordinates", func(t *testing.T) {
		rec := serve(h.GetNearest, http.MethodGet, "/branches/nearest", "/branches/nearest?lat=21", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("nearest out of range", func(t *testing.T) {
		rec := serve(h.GetNearest, http.MethodGet, "/branches/nearest", "/branches/nearest?lat=120&lng=105", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get", func(t *testing.T) {
		rec := serve(h.GetBranchByID, http.MethodGet, "/branches/{id}", "/branches/1", "")
		body := decode[envelope[response.BranchResponse]](t, rec)
		assert.Equal(t, "Vincom Center Bà Triệu", body.Data.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := serve(h.GetBranchByID, http.MethodGet, "/branches/{id}", "/branches/777", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := serve(h.GetSlots, http.MethodGet, "/branches/{id}/slots", "/branches/abc/slots", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("slots", func(t *testing.T) {
		rec := serve(h.GetSlots, http.MethodGet, "/branches/{id}/slots", "/branches/21/slots", "")
		body := decode[envelope[response.SlotsResponse]](t, rec)
		assert.Equal(t, "08:00", body.Data.Slots[0])
		assert.Equal(t, "23:30", body.Data.Slots[len(body.Data.Slots)-1])
	})
}

func directionHandler(t *testing.T, maps usecase.MapProvider) *DirectionHandler {
	t.Helper()
	repo, err := repository.NewBranchRepository(zap.NewNop())
	require.NoError(t, err)
	return NewDirectionHandler(usecase.NewDirectionService(maps, repo, zap.NewNop()), zap.NewNop())
}

func TestDirectionHandler(t *testing.T) {
	cases := []struct {
		name   string
		maps   stubMaps
		target string
		status int
	}{
		{"to branch", stubMaps{}, "/directions?originLat=21&originLng=105.8&branchId=1", http.StatusOK},
		{"to point", stubMaps{}, "/directions?originLat=21&originLng=105.8&destLat=21.01&destLng=105.85&vehicle=foot", http.StatusOK},
		{"missing origin", stubMaps{}, "/directions?branchId=1", http.StatusBadRequest},
		{"missing destination", stubMaps{}, "/directions?originLat=21&originLng=105.8", http.StatusBadRequest},
		{"bad vehicle", stubMaps{}, "/directions?originLat=21&originLng=105.8&branchId=1&vehicle=boat", http.StatusBadRequest},
		{"unknown branch", stubMaps{}, "/directions?originLat=21&originLng=105.8&branchId=404", http.StatusNotFound},
		{"not configured", stubMaps{err: mapsapi.ErrNotConfigured}, "/directions?originLat=21&originLng=105.8&branchId=1", http.StatusServiceUnavailable},
		{"upstream failure", stubMaps{err: mapsapi.ErrNoRoute}, "/directions?originLat=21&originLng=105.8&branchId=1", http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := directionHandler(t, tc.maps)
			rec := serve(h.GetDirections, http.MethodGet, "/directions", tc.target, "")
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestDirectionHandler_Geocode(t *testing.T) {
	h := directionHandler(t, stubMaps{})
	rec := serve(h.Geocode, http.MethodGet, "/geocode", "/geocode?q=Landmark+81", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[envelope[mapsapi.Place]](t, rec)
	assert.Equal(t, "Landmark 81", body.Data.Label)

	rec = serve(h.Geocode, http.MethodGet, "/geocode", "/geocode?q=%20", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h = directionHandler(t, stubMaps{err: mapsapi.ErrNotFound})
	rec = serve(h.Geocode, http.MethodGet, "/geocode", "/geocode?q=nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
