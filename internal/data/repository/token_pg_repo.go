package repository

import (
	"context"
	"errors"
	"fmt"

	"branch-locator/internal/data/entity"
	"branch-locator/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const pgTokenKey = "default"

type PostgresTokenStore struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPostgresTokenStore(db database.PgxIface, log *zap.Logger) *PostgresTokenStore {
	return &PostgresTokenStore{
		db:  db,
		log: log.With(zap.String("repository", "token_postgres")),
	}
}

func (s *PostgresTokenStore) Name() string  { return TokenStorePostgres }
func (s *PostgresTokenStore) Durable() bool { return true }

func (s *PostgresTokenStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS zalo_token_cache (
			cache_key     TEXT PRIMARY KEY,
			access_token  TEXT NOT NULL,
			refresh_token TEXT NOT NULL DEFAULT '',
			expires_at    BIGINT NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := s.db.Exec(ctx, query); err != nil {
		s.log.Error("Failed to create token cache table", zap.Error(err))
		return fmt.Errorf("create zalo_token_cache: %w", err)
	}

	return nil
}

func (s *PostgresTokenStore) Load(ctx context.Context) (*entity.TokenCache, error) {
	query := `
		SELECT access_token, refresh_token, expires_at
		FROM zalo_token_cache
		WHERE cache_key = $1
	`

	var cache entity.TokenCache
	err := s.db.QueryRow(ctx, query, pgTokenKey).Scan(
		&cache.AccessToken,
		&cache.RefreshToken,
		&cache.ExpiresAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to load token cache", zap.Error(err))
		return nil, fmt.Errorf("load token cache: %w", err)
	}

	return &cache, nil
}

func (s *PostgresTokenStore) Save(ctx context.Context, cache *entity.TokenCache) error {
	query := `
		INSERT INTO zalo_token_cache (cache_key, access_token, refresh_token, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (cache_key) DO UPDATE
		SET access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
	`

	_, err := s.db.Exec(ctx, query,
		pgTokenKey,
		cache.AccessToken,
		cache.RefreshToken,
		cache.ExpiresAt,
	)

	if err != nil {
		s.log.Error("Failed to save token cache", zap.Error(err))
		return fmt.Errorf("save token cache: %w", err)
	}

	return nil
}
