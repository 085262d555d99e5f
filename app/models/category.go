package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Category is a product category; hierarchical via ParentID.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(160);not null" json:"name" validate:"required,min=1,max=160"`
	Slug      string    `gorm:"uniqueIndex;type:varchar(180);not null" json:"slug" validate:"required,min=1,max=180"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Parent    *Category `gorm:"foreignKey:ParentID" json:"-"`
	Position  int       `gorm:"default:0" json:"position"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) Validate() error {
	v := validator.New()
	return v.Struct(c)
}
