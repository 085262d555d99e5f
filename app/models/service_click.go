package models

import "time"

// ServiceClick records one click on a service teaser, for the
// statistics dashboard.
type ServiceClick struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ServiceName string    `gorm:"type:varchar(255);not null;index:idx_clicks_service_name" json:"service_name"`
	UserAgent   *string   `gorm:"type:varchar(500)" json:"-"`
	IPAddress   *string   `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_clicks_created_at" json:"created_at"`
}

func (ServiceClick) TableName() string {
	return "service_clicks"
}
