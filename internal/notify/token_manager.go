package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"branch-locator/internal/data/entity"
	"branch-locator/internal/data/repository"
	"branch-locator/pkg/clock"
	"branch-locator/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNoToken        = errors.New("no chat access token configured")
	ErrNoRefreshToken = errors.New("ZALO_OA_REFRESH_TOKEN is not configured")
)

const refreshHookTimeout = 30 * time.Second

// TokenAPI is the part of the OA client the token manager needs.
type TokenAPI interface {
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Probe(ctx context.Context, accessToken string) error
}

// RefreshResult describes a completed refresh.
type RefreshResult struct {
	Cache     entity.TokenCache
	ExpiresIn int64 // seconds
	Persisted bool
	Store     string
}

type TokenManagerConfig struct {
	AccessToken  string
	RefreshToken string
	// OnRefresh runs in the background after an automatic refresh.
	OnRefresh func(ctx context.Context, res RefreshResult)
}

// TokenManager hands out a usable chat access token, refreshing it through the
// OAuth endpoint when the cached copy is close to expiry.
type TokenManager struct {
	api       TokenAPI
	store     repository.TokenStore
	cfg       TokenManagerConfig
	clock     clock.Clock
	metrics   *metrics.BookingMetrics
	log       *zap.Logger
	group     singleflight.Group
	hooks     sync.WaitGroup
	mu        sync.RWMutex
	lastToken *entity.TokenCache
}

func NewTokenManager(api TokenAPI, store repository.TokenStore, cfg TokenManagerConfig, clk clock.Clock, m *metrics.BookingMetrics, log *zap.Logger) *TokenManager {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &TokenManager{
		api:     api,
		store:   store,
		cfg:     cfg,
		clock:   clk,
		metrics: m,
		log:     log.With(zap.String("service", "token_manager")),
	}
}

// HasCredentials reports whether any token material is configured.
func (m *TokenManager) HasCredentials() bool {
	return m.cfg.AccessToken != "" || m.cfg.RefreshToken != ""
}

// cached returns the persisted token, falling back to the copy kept in memory.
func (m *TokenManager) cached(ctx context.Context) *entity.TokenCache {
	cache, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn("Token store load failed, treating as cache miss", zap.Error(err))
	}
	if cache != nil {
		return cache
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lastToken == nil {
		return nil
	}
	c := *m.lastToken
	return &c
}

// State reports the cache state the next ValidToken call will start from.
func (m *TokenManager) State(ctx context.Context) entity.TokenState {
	return m.cached(ctx).State(m.clock.Now())
}

// ValidToken returns an access token that is usable right now.
func (m *TokenManager) ValidToken(ctx context.Context) (string, error) {
	now := m.clock.Now()

	if cache := m.cached(ctx); cache != nil {
		switch cache.State(now) {
		case entity.TokenStateValid:
			return cache.AccessToken, nil
		case entity.TokenStateExpiringSoon:
			m.log.Info("Cached token expiring soon, refreshing", zap.Time("expires_at", cache.ExpiresTime()))
			refreshToken := cache.RefreshToken
			if refreshToken == "" {
				refreshToken = m.cfg.RefreshToken
			}
			if refreshToken == "" {
				return "", ErrNoRefreshToken
			}
			res, err := m.refresh(ctx, refreshToken, true)
			if err != nil {
				return "", err
			}
			return res.Cache.AccessToken, nil
		}
	}

	if m.cfg.AccessToken != "" {
		err := m.api.Probe(ctx, m.cfg.AccessToken)
		if err == nil {
			return m.cfg.AccessToken, nil
		}
		m.log.Warn("Configured access token rejected, attempting refresh", zap.Error(err))
	}

	if m.cfg.RefreshToken == "" {
		if m.cfg.AccessToken == "" {
			return "", ErrNoToken
		}
		return "", ErrNoRefreshToken
	}

	res, err := m.refresh(ctx, m.cfg.RefreshToken, true)
	if err != nil {
		return "", err
	}
	return res.Cache.AccessToken, nil
}

// ForceRefresh refreshes regardless of the cache state. The caller handles alerts.
func (m *TokenManager) ForceRefresh(ctx context.Context) (*RefreshResult, error) {
	refreshToken := m.cfg.RefreshToken
	if cache := m.cached(ctx); cache != nil && cache.RefreshToken != "" {
		refreshToken = cache.RefreshToken
	}
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	return m.refresh(ctx, refreshToken, false)
}

// Refresh exchanges exactly the given refresh token.
func (m *TokenManager) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	return m.refresh(ctx, refreshToken, false)
}

// refresh collapses concurrent refreshes of the same refresh token into one
// call. Only the caller that performed the refresh fires OnRefresh.
func (m *TokenManager) refresh(ctx context.Context, refreshToken string, notify bool) (*RefreshResult, error) {
	v, err, _ := m.group.Do(refreshToken, func() (any, error) {
		res, err := m.doRefresh(ctx, refreshToken)
		if err == nil && notify && m.cfg.OnRefresh != nil {
			m.fireHook(ctx, *res)
		}
		return res, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*RefreshResult), nil
}

func (m *TokenManager) fireHook(ctx context.Context, res RefreshResult) {
	m.hooks.Add(1)
	go func() {
		defer m.hooks.Done()
		hookCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshHookTimeout)
		defer cancel()
		m.cfg.OnRefresh(hookCtx, res)
	}()
}

func (m *TokenManager) doRefresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	tr, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		m.metrics.ObserveRefresh("failed")
		m.log.Error("Token refresh failed", zap.Error(err))
		return nil, err
	}

	rotated := tr.RefreshToken
	if rotated == "" {
		rotated = refreshToken
	}
	lifetime := tr.Lifetime()
	cache := entity.TokenCache{
		AccessToken:  tr.AccessToken,
		RefreshToken: rotated,
		ExpiresAt:    m.clock.Now().Add(time.Duration(lifetime) * time.Second).UnixMilli(),
	}

	m.mu.Lock()
	m.lastToken = &cache
	m.mu.Unlock()

	persisted := false
	if err := m.store.Save(ctx, &cache); err != nil {
		m.log.Error("Failed to persist refreshed token", zap.String("store", m.store.Name()), zap.Error(err))
	} else {
		persisted = m.store.Durable()
	}

	m.metrics.ObserveRefresh("success")
	m.log.Info("Token refreshed",
		zap.Int64("expires_in", lifetime),
		zap.String("store", m.store.Name()),
		zap.Bool("persisted", persisted),
	)

	return &RefreshResult{
		Cache:     cache,
		ExpiresIn: lifetime,
		Persisted: persisted,
		Store:     m.store.Name(),
	}, nil
}

// Wait blocks until background refresh hooks have finished.
func (m *TokenManager) Wait() {
	m.hooks.Wait()
}
