package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraiem/boutiqa/app/models"
)

func categoryRowsOf(t *testing.T, result interface{}) []models.Category {
	t.Helper()
	rows, ok := result.(*[]models.Category)
	require.True(t, ok)
	return *rows
}

func TestCategoryListDefaultOrderIsName(t *testing.T) {
	db := openTestDB(t)
	repo := NewCategoryRepository(db)

	mustCreate(t, db, &models.Category{Name: "Zebra", Slug: "zebra"})
	mustCreate(t, db, &models.Category{Name: "Alpha", Slug: "alpha"})

	result, err := repo.List(CategoryListQuery{})
	require.NoError(t, err)
	rows := categoryRowsOf(t, result.Rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0].Name)
}

func TestCategoryListSearchOverNameAndSlug(t *testing.T) {
	db := openTestDB(t)
	repo := NewCategoryRepository(db)

	mustCreate(t, db, &models.Category{Name: "Mobility aids", Slug: "mobility-aids"})
	mustCreate(t, db, &models.Category{Name: "Respiratory", Slug: "respiratory"})

	result, err := repo.List(CategoryListQuery{Search: "mobility"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	result, err = repo.List(CategoryListQuery{Search: "respir"})
	require.NoError(t, err)
	rows := categoryRowsOf(t, result.Rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Respiratory", rows[0].Name)
}

func TestCategoryListPositionSort(t *testing.T) {
	db := openTestDB(t)
	repo := NewCategoryRepository(db)

	mustCreate(t, db, &models.Category{Name: "Second", Slug: "second", Position: 2})
	mustCreate(t, db, &models.Category{Name: "First", Slug: "first", Position: 1})

	result, err := repo.List(CategoryListQuery{Order: "position:asc"})
	require.NoError(t, err)
	rows := categoryRowsOf(t, result.Rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "First", rows[0].Name)
}

func TestCategoryCRUD(t *testing.T) {
	db := openTestDB(t)
	repo := NewCategoryRepository(db)

	category := &models.Category{Name: "Parent", Slug: "parent", IsActive: true}
	require.NoError(t, repo.Create(category))

	child := &models.Category{Name: "Child", Slug: "child", ParentID: &category.ID, IsActive: true}
	require.NoError(t, repo.Create(child))

	got, err := repo.GetByID(child.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, category.ID, *got.ParentID)

	got.Name = "Renamed"
	require.NoError(t, repo.Update(got))

	got, err = repo.GetByID(child.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	require.NoError(t, repo.Delete(child.ID))
	_, err = repo.GetByID(child.ID)
	assert.Error(t, err)
}
