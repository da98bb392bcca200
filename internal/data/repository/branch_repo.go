package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"branch-locator/internal/data/entity"

	"go.uber.org/zap"
)

//go:embed branches.json
var branchesJSON []byte

type BranchRepository interface {
	FindAll(ctx context.Context) ([]*entity.Branch, error)
	FindByID(ctx context.Context, id int) (*entity.Branch, error)
	FindByName(ctx context.Context, name string) (*entity.Branch, error)
}

// branchRepository serves the catalogue compiled into the binary. It is read-only.
type branchRepository struct {
	branches []*entity.Branch
	byID     map[int]*entity.Branch
	log      *zap.Logger
}

func NewBranchRepository(log *zap.Logger) (BranchRepository, error) {
	return NewBranchRepositoryFrom(branchesJSON, log)
}

func NewBranchRepositoryFrom(data []byte, log *zap.Logger) (BranchRepository, error) {
	var branches []*entity.Branch
	if err := json.Unmarshal(data, &branches); err != nil {
		return nil, fmt.Errorf("decode branch catalogue: %w", err)
	}

	byID := make(map[int]*entity.Branch, len(branches))
	for _, b := range branches {
		if _, dup := byID[b.ID]; dup {
			return nil, fmt.Errorf("decode branch catalogue: duplicate branch id %d", b.ID)
		}
		byID[b.ID] = b
	}

	log = log.With(zap.String("repository", "branch"))
	log.Debug("Branch catalogue loaded", zap.Int("count", len(branches)))

	return &branchRepository{branches: branches, byID: byID, log: log}, nil
}

func (r *branchRepository) FindAll(ctx context.Context) ([]*entity.Branch, error) {
	out := make([]*entity.Branch, len(r.branches))
	copy(out, r.branches)
	return out, nil
}

func (r *branchRepository) FindByID(ctx context.Context, id int) (*entity.Branch, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (r *branchRepository) FindByName(ctx context.Context, name string) (*entity.Branch, error) {
	name = strings.TrimSpace(name)
	for _, b := range r.branches {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return nil, nil
}
