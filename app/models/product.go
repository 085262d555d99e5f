package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Product is a catalog product. Listing endpoints hide inactive
// products unless explicitly asked otherwise.
type Product struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Title            string          `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=1,max=200"`
	Slug             string          `gorm:"uniqueIndex;type:varchar(220);not null" json:"slug" validate:"required,min=1,max=220"`
	Reference        *string         `gorm:"uniqueIndex;type:varchar(100)" json:"reference"`
	Price            *float64        `gorm:"type:decimal(10,2)" json:"price"`
	Currency         string          `gorm:"type:varchar(3);default:'TND'" json:"currency"`
	ShortDescription string          `gorm:"type:text" json:"short_description"`
	DescriptionHTML  string          `gorm:"type:text" json:"description_html"`
	Thumbnail        *string         `gorm:"type:varchar(255)" json:"thumbnail"`
	Gallery          StringList      `gorm:"type:json" json:"gallery"`
	CategoryID       uint            `gorm:"index;not null" json:"category_id"`
	Category         *Category       `gorm:"foreignKey:CategoryID" json:"-"`
	SubCategoryID    uint            `gorm:"index;not null" json:"sub_category_id"`
	SubCategory      *Category       `gorm:"foreignKey:SubCategoryID" json:"-"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
	IsLandingPage    bool            `gorm:"default:false" json:"is_landing_page"`
	Position         *int            `json:"position"`
	SeoTitle         *string         `gorm:"type:varchar(255)" json:"seo_title"`
	SeoDescription   *string         `gorm:"type:varchar(300)" json:"seo_description"`
	Details          *ProductDetails `gorm:"foreignKey:ProductID" json:"details,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) Validate() error {
	v := validator.New()
	return v.Struct(p)
}

// MaxLandingPageProducts caps how many products can be featured on the
// landing page at the same time.
const MaxLandingPageProducts = 6
