package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/internal/pkg/listing"
)

// ProductRow is the projection returned by the products listing,
// flattening the category names into the row.
type ProductRow struct {
	ID               uint              `json:"id"`
	Title            string            `json:"title"`
	Slug             string            `json:"slug"`
	Reference        *string           `json:"reference"`
	Price            *float64          `json:"price"`
	Currency         string            `json:"currency"`
	Thumbnail        *string           `json:"thumbnail"`
	Gallery          models.StringList `json:"gallery"`
	ShortDescription string            `json:"short_description"`
	IsActive         bool              `json:"is_active"`
	IsLandingPage    bool              `json:"is_landing_page"`
	Position         *int              `json:"position"`
	CategoryID       uint              `json:"category_id"`
	SubCategoryID    uint              `json:"sub_category_id"`
	CategoryName     *string           `json:"category_name"`
	SubCategoryName  *string           `json:"sub_category_name"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

var productSortFields = []string{"title", "price", "created_at", "updated_at", "id", "position"}

const productListSelect = `
	products.id, products.title, products.slug, products.reference,
	products.price, products.currency, products.thumbnail, products.gallery,
	products.short_description, products.is_active, products.is_landing_page,
	products.position, products.category_id, products.sub_category_id,
	products.created_at, products.updated_at,
	c.name AS category_name, sc.name AS sub_category_name`

var productListJoins = []string{
	"LEFT JOIN categories c ON c.id = products.category_id",
	"LEFT JOIN categories sc ON sc.id = products.sub_category_id",
}

// productRepository implements the ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Category").Preload("SubCategory").Preload("Details").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetActive returns all active products ordered by id (sitemap feed).
func (r *productRepository) GetActive() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Where("product_id = ?", id).Delete(&models.ProductDetails{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Product{}, id).Error
}

// List runs the filtered count-then-page query for the products
// collection. When a category filter is present the client sort is
// ignored and position ordering (NULLs last) takes over.
func (r *productRepository) List(q ProductListQuery) (listing.Result, error) {
	filters := listing.Filters{}.
		Search(q.Search, "products.reference",
			"products.title", "products.reference", "products.short_description")

	if q.CategoryID != nil {
		filters = filters.Where("products.category_id = ?", *q.CategoryID)
	}
	if q.SubCategoryID != nil {
		filters = filters.Where("products.sub_category_id = ?", *q.SubCategoryID)
	}
	if !q.ShowInactive {
		filters = filters.Where("products.is_active = ?", true)
	}
	if q.IsLandingPage != nil {
		filters = filters.Where("products.is_landing_page = ?", *q.IsLandingPage)
	}

	var orderBy string
	if q.CategoryID != nil {
		orderBy = "(CASE WHEN products.position IS NULL THEN 1 ELSE 0 END) ASC, products.position ASC, products.id ASC"
	} else {
		ord := listing.ResolveOrder(q.Order, productSortFields, "title", "ASC")
		orderBy = "products." + ord.SQL()
	}

	var rows []ProductRow
	return listing.Run(r.db, listing.Query{
		Model:      &models.Product{},
		Select:     productListSelect,
		Joins:      productListJoins,
		Filters:    filters,
		OrderBy:    orderBy,
		Pagination: listing.ComputePagination(q.Page, q.Limit),
	}, &rows)
}

// CountLandingPage counts landing-page products, excluding one id (the
// product currently being updated).
func (r *productRepository) CountLandingPage(excludeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("is_landing_page = ? AND id != ?", true, excludeID).
		Count(&count).Error
	return count, err
}

func (r *productRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// UpsertDetails creates or updates the 1:1 details record of a product.
func (r *productRepository) UpsertDetails(details *models.ProductDetails) error {
	var existing models.ProductDetails
	err := r.db.Where("product_id = ?", details.ProductID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(details).Error
	}
	if err != nil {
		return err
	}
	details.ID = existing.ID
	details.CreatedAt = existing.CreatedAt
	return r.db.Save(details).Error
}
