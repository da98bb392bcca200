package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBranchRepository_EmbeddedCatalogue(t *testing.T) {
	ctx := context.Background()
	repo, err := NewBranchRepository(zap.NewNop())
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 48)

	for _, b := range all {
		assert.NotEmpty(t, b.Name, "branch %d", b.ID)
		assert.NotEmpty(t, b.City, "branch %d", b.ID)
		assert.True(t, b.Point().Valid(), "branch %d", b.ID)
	}

	first, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Vincom Center Bà Triệu", first.Name)
	assert.Equal(t, "Hà Nội", first.City)

	byName, err := repo.FindByName(ctx, "  vincom center bà triệu ")
	require.NoError(t, err)
	assert.Same(t, first, byName)

	missing, err := repo.FindByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBranchRepository_FindAllReturnsCopy(t *testing.T) {
	repo, err := NewBranchRepositoryFrom([]byte(`[{"id":1,"name":"A"},{"id":2,"name":"B"}]`), zap.NewNop())
	require.NoError(t, err)

	all, _ := repo.FindAll(context.Background())
	all[0] = nil

	again, _ := repo.FindAll(context.Background())
	assert.NotNil(t, again[0])
}

func TestBranchRepository_RejectsDuplicateIDs(t *testing.T) {
	_, err := NewBranchRepositoryFrom([]byte(`[{"id":1},{"id":1}]`), zap.NewNop())
	assert.Error(t, err)

	_, err = NewBranchRepositoryFrom([]byte(`{`), zap.NewNop())
	assert.Error(t, err)
}
