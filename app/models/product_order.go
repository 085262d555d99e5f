package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ORDER_TYPE_MAIL     = "mail"
	ORDER_TYPE_WHATSAPP = "whatsapp"
)

// ProductOrder records one tracked order intent. Rows are only ever
// inserted; the duplicate window in the order repository decides when a
// submission maps to an existing row instead.
type ProductOrder struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ProductID        *uint     `gorm:"index:idx_orders_product_id" json:"product_id"`
	ProductReference *string   `gorm:"type:varchar(255)" json:"product_reference"`
	ProductTitle     string    `gorm:"type:varchar(500);not null" json:"product_title" validate:"required,max=500"`
	CustomerEmail    *string   `gorm:"type:varchar(255)" json:"customer_email" validate:"omitempty,email"`
	CustomerPhone    string    `gorm:"type:varchar(50);not null" json:"customer_phone" validate:"required,max=50"`
	OrderType        string    `gorm:"type:varchar(20);not null;index:idx_orders_order_type" json:"order_type" validate:"oneof=mail whatsapp"`
	UserAgent        *string   `gorm:"type:varchar(500)" json:"-"`
	IPAddress        *string   `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index:idx_orders_created_at" json:"created_at"`
}

func (ProductOrder) TableName() string {
	return "product_orders"
}

func (o *ProductOrder) Validate() error {
	v := validator.New()
	return v.Struct(o)
}
