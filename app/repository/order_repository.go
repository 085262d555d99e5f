package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/internal/pkg/listing"
)

// DuplicateWindow is the trailing interval within which two submissions
// sharing the same identity are treated as one logical order.
const DuplicateWindow = 5 * time.Minute

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.ProductOrder) error {
	return r.db.Create(order).Error
}

// FindRecentDuplicate looks for an order matching the candidate's
// identity inside the trailing window. Identity is the strongest
// available product key combined with the customer phone: product id,
// else product reference, else product title — always together with the
// order type. Returns (nil, nil) when no duplicate exists.
//
// The check-then-insert pair is deliberately not transactional: two
// near-simultaneous identical submissions can both pass. A short window
// is a best-effort dedup for client retries, not an exactly-once
// guarantee.
func (r *orderRepository) FindRecentDuplicate(candidate *models.ProductOrder, window time.Duration) (*models.ProductOrder, error) {
	since := time.Now().Add(-window)

	q := r.db.Where("order_type = ?", candidate.OrderType).
		Where("customer_phone = ?", candidate.CustomerPhone).
		Where("created_at >= ?", since)

	switch {
	case candidate.ProductID != nil:
		q = q.Where("product_id = ?", *candidate.ProductID)
	case candidate.ProductReference != nil:
		q = q.Where("product_reference = ?", *candidate.ProductReference)
	default:
		q = q.Where("product_title = ?", candidate.ProductTitle)
	}

	var existing models.ProductOrder
	err := q.Order("created_at DESC").First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// List returns tracked orders newest first, optionally bounded by a
// date range. The limit is capped at 100 for this endpoint.
func (r *orderRepository) List(q OrderListQuery) (listing.Result, error) {
	filters := listing.Filters{}
	if q.StartDate != nil {
		filters = filters.Where("created_at >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		filters = filters.Where("created_at <= ?", *q.EndDate)
	}

	var rows []models.ProductOrder
	return listing.Run(r.db, listing.Query{
		Model:      &models.ProductOrder{},
		Filters:    filters,
		OrderBy:    "created_at DESC",
		Pagination: listing.ComputePaginationBounded(q.Page, q.Limit, 50, 100),
	}, &rows)
}

func (r *orderRepository) CountBetween(start, end *time.Time) (int64, error) {
	q := r.db.Model(&models.ProductOrder{})
	if start != nil {
		q = q.Where("created_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("created_at <= ?", *end)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *orderRepository) CountByType() ([]TypeCount, error) {
	var rows []TypeCount
	err := r.db.Model(&models.ProductOrder{}).
		Select("order_type, COUNT(id) AS count").
		Group("order_type").
		Find(&rows).Error
	return rows, err
}

// TopProducts returns the most ordered products, capped at limit.
func (r *orderRepository) TopProducts(limit int) ([]ProductCount, error) {
	var rows []ProductCount
	err := r.db.Model(&models.ProductOrder{}).
		Select("product_id, product_title, COUNT(id) AS count").
		Group("product_id").Group("product_title").
		Order("count DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
