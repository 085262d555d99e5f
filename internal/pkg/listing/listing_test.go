package listing

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var productSortFields = []string{"title", "price", "created_at", "updated_at", "id", "position"}

func TestResolveOrder(t *testing.T) {
	tests := []struct {
		name  string
		param string
		want  Order
	}{
		{"empty falls back", "", Order{"title", "ASC"}},
		{"valid field and direction", "price:desc", Order{"price", "DESC"}},
		{"direction uppercased", "price:DeSc", Order{"price", "DESC"}},
		{"unknown field keeps default field", "evil;DROP:desc", Order{"title", "DESC"}},
		{"bad direction keeps default direction", "price:sideways", Order{"price", "ASC"}},
		{"field is case-sensitive", "TITLE:desc", Order{"title", "DESC"}},
		{"field only", "id", Order{"id", "ASC"}},
		{"injection in direction ignored", "title:asc; DROP TABLE products", Order{"title", "ASC"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveOrder(tt.param, productSortFields, "title", "ASC")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOrderSQL(t *testing.T) {
	assert.Equal(t, "price DESC", ResolveOrder("price:desc", productSortFields, "title", "ASC").SQL())
}

func TestComputePagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Pagination
	}{
		{"defaults", 0, 0, Pagination{1, DefaultLimit, 0}},
		{"negative page", -3, 10, Pagination{1, 10, 0}},
		{"zero limit gets default", 2, 0, Pagination{2, DefaultLimit, DefaultLimit}},
		{"limit above ceiling clamps", 1, 10000, Pagination{1, MaxLimit, 0}},
		{"normal", 3, 20, Pagination{3, 20, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputePagination(tt.page, tt.limit))
		})
	}
}

func TestComputePaginationBounded(t *testing.T) {
	got := ComputePaginationBounded(0, 500, 50, 100)
	assert.Equal(t, Pagination{1, 100, 0}, got)

	got = ComputePaginationBounded(2, 0, 25, 100)
	assert.Equal(t, Pagination{2, 25, 25}, got)
}

type listingItem struct {
	ID        uint `gorm:"primaryKey"`
	Title     string
	Reference string
	Active    bool
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&listingItem{}))
	return db
}

func TestFiltersImmutable(t *testing.T) {
	base := Filters{}.Where("active = ?", true)
	a := base.Where("title = ?", "x")
	b := base.Where("title = ?", "y")

	db := openTestDB(t)
	require.NoError(t, db.Create(&listingItem{Title: "x", Active: true}).Error)
	require.NoError(t, db.Create(&listingItem{Title: "y", Active: true}).Error)

	var countA, countB int64
	require.NoError(t, a.Apply(db.Model(&listingItem{})).Count(&countA).Error)
	require.NoError(t, b.Apply(db.Model(&listingItem{})).Count(&countB).Error)
	assert.Equal(t, int64(1), countA)
	assert.Equal(t, int64(1), countB)
}

func TestSearchNumericMatchesReferenceExactly(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&listingItem{Title: "Wheelchair 1200", Reference: "1200", Active: true}).Error)
	require.NoError(t, db.Create(&listingItem{Title: "Bed 12003", Reference: "12003", Active: true}).Error)

	filters := Filters{}.Search("1200", "reference", "title", "reference")

	var rows []listingItem
	require.NoError(t, filters.Apply(db.Model(&listingItem{})).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "1200", rows[0].Reference)
}

func TestSearchTextIsCaseInsensitiveSubstring(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&listingItem{Title: "Fauteuil Roulant", Reference: "A-1"}).Error)
	require.NoError(t, db.Create(&listingItem{Title: "Lit Medical", Reference: "B-2"}).Error)

	filters := Filters{}.Search("ROULANT", "reference", "title", "reference")

	var rows []listingItem
	require.NoError(t, filters.Apply(db.Model(&listingItem{})).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Fauteuil Roulant", rows[0].Title)
}

func TestSearchEmptyTermIsNoop(t *testing.T) {
	base := Filters{}.Where("active = ?", true)
	assert.Equal(t, base, base.Search("   ", "reference", "title"))
}

func TestRunCountAndPageShareFilters(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&listingItem{
			Title:  fmt.Sprintf("item %02d", i),
			Active: i%2 == 0,
		}).Error)
	}

	filters := Filters{}.Where("active = ?", true)

	var rows []listingItem
	result, err := Run(db, Query{
		Model:      &listingItem{},
		Filters:    filters,
		OrderBy:    "title ASC",
		Pagination: ComputePagination(1, 10),
	}, &rows)
	require.NoError(t, err)

	// 13 active items total, first page holds 10
	assert.Equal(t, int64(13), result.Total)
	assert.Len(t, rows, 10)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.Limit)

	// second page has the remaining 3, same total
	rows = nil
	result, err = Run(db, Query{
		Model:      &listingItem{},
		Filters:    filters,
		OrderBy:    "title ASC",
		Pagination: ComputePagination(2, 10),
	}, &rows)
	require.NoError(t, err)
	assert.Equal(t, int64(13), result.Total)
	assert.Len(t, rows, 3)
}

func TestRunPageBeyondEndIsEmptyNotError(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&listingItem{Title: "only one"}).Error)

	var rows []listingItem
	result, err := Run(db, Query{
		Model:      &listingItem{},
		OrderBy:    "id ASC",
		Pagination: ComputePagination(99, 10),
	}, &rows)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Empty(t, rows)
}
