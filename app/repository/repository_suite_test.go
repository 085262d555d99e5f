package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mkraiem/boutiqa/app/models"
)

// openTestDB spins up an in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.ProductDetails{},
		&models.Article{},
		&models.ProductOrder{},
		&models.ServiceClick{},
	))
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	require.NoError(t, db.Create(value).Error)
}

func uintPtr(v uint) *uint        { return &v }
func intPtr(v int) *int           { return &v }
func strp(v string) *string       { return &v }
func floatPtr(v float64) *float64 { return &v }
