package models

import "time"

// ProductDetails carries the structured-data (schema.org) attributes of
// a product, kept in a side table so the main listing stays narrow.
type ProductDetails struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ProductID      uint       `gorm:"uniqueIndex;not null" json:"product_id"`
	Brand          *string    `gorm:"type:varchar(120)" json:"brand"`
	SKU            *string    `gorm:"type:varchar(80)" json:"sku"`
	SeoDescription *string    `gorm:"type:varchar(300)" json:"seo_description"`
	RatingValue    *float64   `json:"rating_value"`
	RatingCount    *int       `json:"rating_count"`
	Availability   string     `gorm:"type:varchar(40);default:'InStock'" json:"availability"`
	GTIN           *string    `gorm:"type:varchar(40)" json:"gtin"`
	MPN            *string    `gorm:"type:varchar(40)" json:"mpn"`
	ItemCondition  *string    `gorm:"type:varchar(40)" json:"item_condition"`
	PriceValidTo   *time.Time `json:"price_valid_until"`
	CategorySchema *string    `gorm:"type:varchar(160)" json:"category_schema"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProductDetails) TableName() string {
	return "product_details"
}
