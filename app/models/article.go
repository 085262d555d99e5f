package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ARTICLE_DRAFT     = "draft"
	ARTICLE_PUBLISHED = "published"
)

// Article is a blog/news entry with a draft/published workflow.
// Listings hide drafts unless explicitly asked otherwise.
type Article struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=1,max=200"`
	Slug           string     `gorm:"uniqueIndex;type:varchar(220);not null" json:"slug" validate:"required,min=1,max=220"`
	AuthorName     *string    `gorm:"type:varchar(120)" json:"author_name"`
	Excerpt        string     `gorm:"type:text" json:"excerpt"`
	ContentHTML    string     `gorm:"type:text" json:"content_html"`
	Thumbnail      *string    `gorm:"type:varchar(255)" json:"thumbnail"`
	Gallery        StringList `gorm:"type:json" json:"gallery"`
	Status         string     `gorm:"type:varchar(20);default:'draft'" json:"status" validate:"oneof=draft published"`
	PublishedAt    *time.Time `json:"published_at"`
	SeoTitle       *string    `gorm:"type:varchar(255)" json:"seo_title"`
	SeoDescription *string    `gorm:"type:varchar(300)" json:"seo_description"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Article) TableName() string {
	return "articles"
}

func (a *Article) Validate() error {
	v := validator.New()
	return v.Struct(a)
}
