package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/mkraiem/boutiqa/app/models"
)

// clickRepository implements the ClickRepository interface
type clickRepository struct {
	db *gorm.DB
}

// NewClickRepository creates a new click repository instance
func NewClickRepository(db *gorm.DB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) Create(click *models.ServiceClick) error {
	return r.db.Create(click).Error
}

func (r *clickRepository) CountBetween(start, end *time.Time) (int64, error) {
	q := r.db.Model(&models.ServiceClick{})
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

func (r *clickRepository) CountByService() ([]ServiceCount, error) {
	var rows []ServiceCount
	err := r.db.Model(&models.ServiceClick{}).
		Select("service_name, COUNT(id) AS count").
		Group("service_name").
		Find(&rows).Error
	return rows, err
}
