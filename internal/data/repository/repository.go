package repository

import (
	"context"

	"branch-locator/pkg/database"
	"branch-locator/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Repository struct {
	Token  TokenStore
	Branch BranchRepository
}

// NewRepository wires the stores. db and rdb may be nil when not configured.
func NewRepository(ctx context.Context, cfg utils.ZaloConfig, db database.PgxIface, rdb *redis.Client, log *zap.Logger) (*Repository, error) {
	branch, err := NewBranchRepository(log)
	if err != nil {
		return nil, err
	}

	token := NewTokenStore(ctx, cfg, db, rdb, log)
	log.Info("Token store selected", zap.String("store", token.Name()), zap.Bool("durable", token.Durable()))

	return &Repository{
		Token:  token,
		Branch: branch,
	}, nil
}
