package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"branch-locator/internal/data/entity"

	"go.uber.org/zap"
)

type fileTokenStore struct {
	path string
	log  *zap.Logger
}

func NewFileTokenStore(path string, log *zap.Logger) TokenStore {
	return &fileTokenStore{
		path: path,
		log:  log.With(zap.String("repository", "token_file")),
	}
}

func (s *fileTokenStore) Name() string  { return TokenStoreFile }
func (s *fileTokenStore) Durable() bool { return true }

// Load treats a missing, unreadable or malformed file as a cache miss.
func (s *fileTokenStore) Load(ctx context.Context) (*entity.TokenCache, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("Token cache file unreadable", zap.String("path", s.path), zap.Error(err))
		}
		return nil, nil
	}

	var cache entity.TokenCache
	if err := json.Unmarshal(data, &cache); err != nil {
		s.log.Warn("Token cache file malformed", zap.String("path", s.path), zap.Error(err))
		return nil, nil
	}
	if cache.AccessToken == "" {
		return nil, nil
	}

	return &cache, nil
}

func (s *fileTokenStore) Save(ctx context.Context, cache *entity.TokenCache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-cache-*")
	if err != nil {
		return fmt.Errorf("create token cache temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write token cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token cache: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("chmod token cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		s.log.Error("Failed to save token cache", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("save token cache %s: %w", s.path, err)
	}

	s.log.Info("Token cache saved", zap.String("path", s.path), zap.Int64("expires_at", cache.ExpiresAt))
	return nil
}
