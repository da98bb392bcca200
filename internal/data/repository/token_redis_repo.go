package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"branch-locator/internal/data/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisTokenKey = "zalo:oa:token_cache"

type redisTokenStore struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisTokenStore(rdb *redis.Client, log *zap.Logger) TokenStore {
	return &redisTokenStore{
		rdb: rdb,
		log: log.With(zap.String("repository", "token_redis")),
	}
}

func (s *redisTokenStore) Name() string  { return TokenStoreRedis }
func (s *redisTokenStore) Durable() bool { return true }

func (s *redisTokenStore) Load(ctx context.Context) (*entity.TokenCache, error) {
	data, err := s.rdb.Get(ctx, redisTokenKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to load token cache", zap.Error(err))
		return nil, fmt.Errorf("load token cache: %w", err)
	}

	var cache entity.TokenCache
	if err := json.Unmarshal(data, &cache); err != nil {
		s.log.Warn("Token cache value malformed", zap.Error(err))
		return nil, nil
	}
	if cache.AccessToken == "" {
		return nil, nil
	}

	return &cache, nil
}

// Save keeps the value without a TTL: the refresh token outlives the access token.
func (s *redisTokenStore) Save(ctx context.Context, cache *entity.TokenCache) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("marshal token cache: %w", err)
	}

	if err := s.rdb.Set(ctx, redisTokenKey, data, 0).Err(); err != nil {
		s.log.Error("Failed to save token cache", zap.Error(err))
		return fmt.Errorf("save token cache: %w", err)
	}

	return nil
}
