package repository

import (
	"gorm.io/gorm"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/internal/pkg/listing"
)

var articleSortFields = []string{"title", "created_at", "updated_at", "id", "published_at"}

// articleRepository implements the ArticleRepository interface
type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository instance
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) GetBySlug(slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.Where("slug = ?", slug).First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// GetPublished returns all published articles (sitemap feed).
func (r *articleRepository) GetPublished() ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Where("status = ?", models.ARTICLE_PUBLISHED).Find(&articles).Error
	return articles, err
}

func (r *articleRepository) Update(article *models.Article) error {
	return r.db.Save(article).Error
}

func (r *articleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Article{}, id).Error
}

// List runs the filtered count-then-page query for articles. Drafts are
// hidden unless ShowDraft is set.
func (r *articleRepository) List(q ArticleListQuery) (listing.Result, error) {
	filters := listing.Filters{}.
		Search(q.Search, "", "title", "excerpt", "content_html")

	if !q.ShowDraft {
		filters = filters.Where("status = ?", models.ARTICLE_PUBLISHED)
	}

	ord := listing.ResolveOrder(q.Order, articleSortFields, "title", "ASC")

	var rows []models.Article
	return listing.Run(r.db, listing.Query{
		Model:      &models.Article{},
		Filters:    filters,
		OrderBy:    ord.SQL(),
		Pagination: listing.ComputePagination(q.Page, q.Limit),
	}, &rows)
}

func (r *articleRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
