package repository

import (
	"context"
	"time"

	"branch-locator/internal/data/entity"

	"go.uber.org/zap"
)

// noopTokenStore is used where nothing survives a restart. Save only logs, so an
// operator can copy the new token into the environment.
type noopTokenStore struct {
	log *zap.Logger
}

func NewNoopTokenStore(log *zap.Logger) TokenStore {
	return &noopTokenStore{log: log.With(zap.String("repository", "token_noop"))}
}

func (s *noopTokenStore) Name() string  { return TokenStoreNone }
func (s *noopTokenStore) Durable() bool { return false }

func (s *noopTokenStore) Load(ctx context.Context) (*entity.TokenCache, error) {
	return nil, nil
}

func (s *noopTokenStore) Save(ctx context.Context, cache *entity.TokenCache) error {
	s.log.Warn("Token refreshed but cannot be persisted, update ZALO_OA_ACCESS_TOKEN and ZALO_OA_REFRESH_TOKEN manually",
		zap.String("access_token", cache.AccessToken),
		zap.String("refresh_token", cache.RefreshToken),
		zap.Time("expires_at", time.UnixMilli(cache.ExpiresAt)),
	)
	return nil
}
