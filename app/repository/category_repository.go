package repository

import (
	"gorm.io/gorm"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/internal/pkg/listing"
)

var categorySortFields = []string{"name", "position", "id"}

// categoryRepository implements the CategoryRepository interface
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}

// List runs the filtered count-then-page query for categories. The safe
// order is followed by a secondary parent_id ordering so subcategories
// group under their parent.
func (r *categoryRepository) List(q CategoryListQuery) (listing.Result, error) {
	filters := listing.Filters{}.
		Search(q.Search, "", "name", "slug")

	ord := listing.ResolveOrder(q.Order, categorySortFields, "name", "ASC")

	var rows []models.Category
	return listing.Run(r.db, listing.Query{
		Model:      &models.Category{},
		Filters:    filters,
		OrderBy:    ord.SQL() + ", parent_id ASC",
		Pagination: listing.ComputePagination(q.Page, q.Limit),
	}, &rows)
}
