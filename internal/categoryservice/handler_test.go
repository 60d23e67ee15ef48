package categoryservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adiwicaksono/warta/internal/common"
)

func setupTestEnvironment(t *testing.T) *CategoryService {
	t.Helper()

	db := common.TestDB("file://../../migrations", t)

	return NewCategoryService(db)
}

func TestCreateCategory(t *testing.T) {
	s := setupTestEnvironment(t)
	ctx := context.Background()

	created, err := s.CreateCategory(ctx, "tech")
	assert.NoError(t, err)
	assert.Equal(t, "tech", created.Name)

	_, err = s.CreateCategory(ctx, "tech")
	assert.ErrorIs(t, err, ErrDuplicateCategory)

	_, err = s.CreateCategory(ctx, "")
	var validationErr common.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestListCategories(t *testing.T) {
	s := setupTestEnvironment(t)
	ctx := context.Background()

	for _, name := range []string{"zoology", "art", "music"} {
		_, err := s.CreateCategory(ctx, name)
		assert.NoError(t, err)
	}

	categories, meta, err := s.ListCategories(ctx, ListFilters{})
	assert.NoError(t, err)
	assert.Equal(t, 3, meta.TotalData)
	assert.Equal(t, 1, meta.TotalPage)

	// default ordering is by name ascending
	assert.Equal(t, "art", categories[0].Name)
	assert.Equal(t, "zoology", categories[2].Name)
}

func TestGetCategoryByName(t *testing.T) {
	s := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := s.GetCategoryByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
