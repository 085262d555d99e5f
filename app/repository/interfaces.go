package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/internal/pkg/listing"
)

// ProductListQuery carries the listing parameters of the products
// collection endpoint.
type ProductListQuery struct {
	Page          int
	Limit         int
	Order         string
	Search        string
	CategoryID    *uint
	SubCategoryID *uint
	ShowInactive  bool
	IsLandingPage *bool
}

// ArticleListQuery carries the listing parameters of the articles
// collection endpoint.
type ArticleListQuery struct {
	Page      int
	Limit     int
	Order     string
	Search    string
	ShowDraft bool
}

// CategoryListQuery carries the listing parameters of the categories
// collection endpoint.
type CategoryListQuery struct {
	Page   int
	Limit  int
	Order  string
	Search string
}

// OrderListQuery carries the parameters of the statistics order listing.
type OrderListQuery struct {
	Page      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
}

// ProductRepository defines the interface for product-related database operations
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetActive() ([]models.Product, error)
	Update(product *models.Product) error
	Delete(id uint) error
	List(q ProductListQuery) (listing.Result, error)
	CountLandingPage(excludeID uint) (int64, error)
	SlugExists(slug string) (bool, error)
	UpsertDetails(details *models.ProductDetails) error
}

// CategoryRepository defines the interface for category-related database operations
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	Update(category *models.Category) error
	Delete(id uint) error
	List(q CategoryListQuery) (listing.Result, error)
}

// ArticleRepository defines the interface for article-related database operations
type ArticleRepository interface {
	Create(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetBySlug(slug string) (*models.Article, error)
	GetPublished() ([]models.Article, error)
	Update(article *models.Article) error
	Delete(id uint) error
	List(q ArticleListQuery) (listing.Result, error)
	SlugExists(slug string) (bool, error)
}

// OrderRepository defines the interface for tracked product orders,
// including the duplicate-window check.
type OrderRepository interface {
	Create(order *models.ProductOrder) error
	FindRecentDuplicate(candidate *models.ProductOrder, window time.Duration) (*models.ProductOrder, error)
	List(q OrderListQuery) (listing.Result, error)
	CountBetween(start, end *time.Time) (int64, error)
	CountByType() ([]TypeCount, error)
	TopProducts(limit int) ([]ProductCount, error)
}

// ClickRepository defines the interface for service click tracking.
type ClickRepository interface {
	Create(click *models.ServiceClick) error
	CountBetween(start, end *time.Time) (int64, error)
	CountByService() ([]ServiceCount, error)
}

// UserRepository defines the interface for backoffice accounts and
// their refresh tokens.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	SaveRefreshToken(token *models.RefreshToken) error
	GetRefreshToken(token string) (*models.RefreshToken, error)
	DeleteRefreshToken(token string) error
}

// TypeCount is one row of the orders-by-type aggregation.
type TypeCount struct {
	OrderType string `json:"order_type"`
	Count     int64  `json:"count"`
}

// ProductCount is one row of the orders-by-product aggregation.
type ProductCount struct {
	ProductID    *uint  `json:"product_id"`
	ProductTitle string `json:"product_title"`
	Count        int64  `json:"count"`
}

// ServiceCount is one row of the clicks-by-service aggregation.
type ServiceCount struct {
	ServiceName string `json:"service_name"`
	Count       int64  `json:"count"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	Product  ProductRepository
	Category CategoryRepository
	Article  ArticleRepository
	Order    OrderRepository
	Click    ClickRepository
	User     UserRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:  NewProductRepository(db),
		Category: NewCategoryRepository(db),
		Article:  NewArticleRepository(db),
		Order:    NewOrderRepository(db),
		Click:    NewClickRepository(db),
		User:     NewUserRepository(db),
	}
}
