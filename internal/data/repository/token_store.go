package repository

import (
	"context"

	"branch-locator/internal/data/entity"
	"branch-locator/pkg/database"
	"branch-locator/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	TokenStoreFile     = "file"
	TokenStoreRedis    = "redis"
	TokenStorePostgres = "postgres"
	TokenStoreNone     = "none"
)

// TokenStore persists the chat token pair. Load returns nil, nil on a cache miss.
type TokenStore interface {
	Load(ctx context.Context) (*entity.TokenCache, error)
	Save(ctx context.Context, cache *entity.TokenCache) error
	// Durable reports whether a saved token survives a process restart.
	Durable() bool
	Name() string
}

// NewTokenStore picks the store named by cfg.TokenStore. An empty name picks the
// first available backend: redis, postgres, then the file when the filesystem is writable.
func NewTokenStore(ctx context.Context, cfg utils.ZaloConfig, db database.PgxIface, rdb *redis.Client, log *zap.Logger) TokenStore {
	kind := cfg.TokenStore
	if kind == "" {
		switch {
		case rdb != nil:
			kind = TokenStoreRedis
		case db != nil:
			kind = TokenStorePostgres
		case cfg.FileSystemWritable:
			kind = TokenStoreFile
		default:
			kind = TokenStoreNone
		}
	}

	switch kind {
	case TokenStoreRedis:
		if rdb != nil {
			return NewRedisTokenStore(rdb, log)
		}
		log.Warn("Token store redis requested but REDIS_ADDR is not configured, tokens will not persist")
	case TokenStorePostgres:
		if db != nil {
			store := NewPostgresTokenStore(db, log)
			if err := store.EnsureSchema(ctx); err != nil {
				log.Warn("Token store postgres unavailable, tokens will not persist", zap.Error(err))
				return NewNoopTokenStore(log)
			}
			return store
		}
		log.Warn("Token store postgres requested but the database is not configured, tokens will not persist")
	case TokenStoreFile:
		return NewFileTokenStore(cfg.CacheFile, log)
	case TokenStoreNone:
	default:
		log.Warn("Unknown token store, tokens will not persist", zap.String("store", kind))
	}

	return NewNoopTokenStore(log)
}
