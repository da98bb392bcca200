package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"branch-locator/internal/data/entity"
	"branch-locator/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleCache() *entity.TokenCache {
	return &entity.TokenCache{AccessToken: "access-1", RefreshToken: "refresh-1", ExpiresAt: 1705312800000}
}

func TestFileTokenStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".zalo-token-cache.json")
	store := NewFileTokenStore(path, zap.NewNop())

	got, err := store.Load(ctx)
	require.NoError(t, err, "missing file is a miss")
	assert.Nil(t, got)

	require.NoError(t, store.Save(ctx, sampleCache()))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleCache(), got)
	assert.True(t, store.Durable())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileTokenStore_MalformedIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	got, err := NewFileTokenStore(path, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileTokenStore_WireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	store := NewFileTokenStore(path, zap.NewNop())
	require.NoError(t, store.Save(context.Background(), &entity.TokenCache{AccessToken: "a", ExpiresAt: 42}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"a","expires_at":42}`, string(data))
}

func TestRedisTokenStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewRedisTokenStore(rdb, zap.NewNop())

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Save(ctx, sampleCache()))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleCache(), got)
	assert.Zero(t, mr.TTL(redisTokenKey), "stored without expiry")
}

func TestRedisTokenStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	_, err := NewRedisTokenStore(rdb, zap.NewNop()).Load(context.Background())
	assert.Error(t, err)
}

func TestPostgresTokenStore(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresTokenStore(mock, zap.NewNop())

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS zalo_token_cache").WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	require.NoError(t, store.EnsureSchema(ctx))

	mock.ExpectQuery("SELECT access_token, refresh_token, expires_at").WithArgs("default").WillReturnError(pgx.ErrNoRows)
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	mock.ExpectExec("INSERT INTO zalo_token_cache").
		WithArgs("default", "access-1", "refresh-1", int64(1705312800000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, store.Save(ctx, sampleCache()))

	mock.ExpectQuery("SELECT access_token, refresh_token, expires_at").WithArgs("default").
		WillReturnRows(pgxmock.NewRows([]string{"access_token", "refresh_token", "expires_at"}).
			AddRow("access-1", "refresh-1", int64(1705312800000)))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleCache(), got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNoopTokenStore(t *testing.T) {
	store := NewNoopTokenStore(zap.NewNop())
	require.NoError(t, store.Save(context.Background(), sampleCache()))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got, "nothing survives")
	assert.False(t, store.Durable())
}

func TestNewTokenStore_Selection(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	tests := []struct {
		name string
		cfg  utils.ZaloConfig
		rdb  *redis.Client
		want string
	}{
		{"auto prefers redis", utils.ZaloConfig{FileSystemWritable: true}, rdb, TokenStoreRedis},
		{"auto file when writable", utils.ZaloConfig{FileSystemWritable: true, CacheFile: "x.json"}, nil, TokenStoreFile},
		{"auto none on read-only fs", utils.ZaloConfig{}, nil, TokenStoreNone},
		{"explicit file", utils.ZaloConfig{TokenStore: "file", CacheFile: "x.json"}, rdb, TokenStoreFile},
		{"explicit redis without client", utils.ZaloConfig{TokenStore: "redis"}, nil, TokenStoreNone},
		{"explicit postgres without db", utils.ZaloConfig{TokenStore: "postgres"}, nil, TokenStoreNone},
		{"unknown", utils.ZaloConfig{TokenStore: "etcd"}, rdb, TokenStoreNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewTokenStore(ctx, tt.cfg, nil, tt.rdb, log)
			assert.Equal(t, tt.want, store.Name())
		})
	}
}

func TestNewTokenStore_PostgresSchemaFailureFallsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS zalo_token_cache").WillReturnError(assert.AnError)

	store := NewTokenStore(context.Background(), utils.ZaloConfig{TokenStore: "postgres"}, mock, nil, zap.NewNop())
	assert.Equal(t, TokenStoreNone, store.Name())
	require.NoError(t, mock.ExpectationsWereMet())
}
