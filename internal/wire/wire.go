package wire

import (
	"context"
	"net/http"

	"branch-locator/internal/adaptor"
	"branch-locator/internal/data/repository"
	"branch-locator/internal/mapsapi"
	"branch-locator/internal/notify"
	"branch-locator/internal/usecase"
	"branch-locator/pkg/clock"
	"branch-locator/pkg/metrics"
	"branch-locator/pkg/middleware"
	"branch-locator/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// App holds the router and the background pieces the server must drain on shutdown.
type App struct {
	Router *chi.Mux
	Tokens *notify.TokenManager
}

// Wiring builds every component from config and mounts the routes.
func Wiring(ctx context.Context, repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	clk := clock.NewRealClock()
	httpClient := &http.Client{Timeout: config.App.OutboundTimeout}

	n, err := buildNotifiers(ctx, repo, config, httpClient, clk, bookingMetrics, logger)
	if err != nil {
		return nil, err
	}

	service := usecase.NewService(repo, usecase.Dependencies{
		Channels: n.Channels,
		Email:    n.Email,
		Tokens:   n.Tokens,
		Maps:     mapsapi.NewClient(config.Maps, httpClient, logger),
		Clock:    clk,
		Metrics:  bookingMetrics,
	}, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, registry, config, logger)

	return &App{
		Router: router,
		Tokens: n.Tokens,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	registry *prometheus.Registry,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.RealIP(config.App.TrustedProxies, logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	// Apply routes
	wireBooking(r, handler.Booking, config, logger)
	wireDiagnostic(r, handler.Diagnostic, config, logger)
	wireBranch(r, handler.Branch)
	wireDirection(r, handler.Direction)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler(registry))

	return r
}
