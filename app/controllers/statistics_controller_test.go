package controllers

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/app/repository"
)

func newStatsTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ProductOrder{}, &models.ServiceClick{}))

	controller := &StatisticsController{
		orders:   repository.NewOrderRepository(db),
		clicks:   repository.NewClickRepository(db),
		validate: validator.New(),
		useCache: false,
	}

	app := fiber.New()
	app.Post("/api/statistics/service-click", controller.HandleServiceClick)
	app.Post("/api/statistics/product-order", controller.HandleProductOrder)
	app.Get("/api/statistics/stats", controller.HandleStats)
	app.Get("/api/statistics/orders", controller.HandleOrders)
	return app, db
}

func TestServiceClickTracking(t *testing.T) {
	app, db := newStatsTestApp(t)

	status, body := postJSON(t, app, "/api/statistics/service-click", `{"service_name":"whatsapp"}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Contains(t, body, `"success":true`)

	var count int64
	require.NoError(t, db.Model(&models.ServiceClick{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	status, _ = postJSON(t, app, "/api/statistics/service-click", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestProductOrderTrackingAndDedup(t *testing.T) {
	app, db := newStatsTestApp(t)

	payload := `{
		"product_id": 7,
		"product_title": "Fauteuil roulant",
		"customer_phone": "+216 20 000 000",
		"order_type": "whatsapp"
	}`

	status, body := postJSON(t, app, "/api/statistics/product-order", payload)
	assert.Equal(t, fiber.StatusCreated, status)
	var first struct {
		Success   bool `json:"success"`
		ID        uint `json:"id"`
		Duplicate bool `json:"duplicate"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &first))
	assert.True(t, first.Success)
	assert.False(t, first.Duplicate)

	// identical submission inside the window maps to the same row
	status, body = postJSON(t, app, "/api/statistics/product-order", payload)
	assert.Equal(t, fiber.StatusOK, status)
	var second struct {
		Success   bool `json:"success"`
		ID        uint `json:"id"`
		Duplicate bool `json:"duplicate"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &second))
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.ProductOrder{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProductOrderValidation(t *testing.T) {
	app, _ := newStatsTestApp(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"missing title", `{"customer_phone":"1","order_type":"mail"}`},
		{"missing phone", `{"product_title":"p","order_type":"mail"}`},
		{"bad order type", `{"product_title":"p","customer_phone":"1","order_type":"fax"}`},
		{"bad email", `{"product_title":"p","customer_phone":"1","order_type":"mail","customer_email":"nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := postJSON(t, app, "/api/statistics/product-order", tt.payload)
			assert.Equal(t, fiber.StatusBadRequest, status)
		})
	}
}

func TestStatsAggregation(t *testing.T) {
	app, db := newStatsTestApp(t)

	require.NoError(t, db.Create(&models.ProductOrder{
		ProductTitle: "Fauteuil", CustomerPhone: "1", OrderType: models.ORDER_TYPE_MAIL,
	}).Error)
	require.NoError(t, db.Create(&models.ServiceClick{ServiceName: "phone"}).Error)

	status, body := getJSON(t, app, "/api/statistics/stats")
	assert.Equal(t, fiber.StatusOK, status)

	var payload statsPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, int64(1), payload.TotalOrders)
	assert.Equal(t, int64(1), payload.TotalClicks)
	require.Len(t, payload.OrdersByType, 1)
	assert.Equal(t, models.ORDER_TYPE_MAIL, payload.OrdersByType[0].OrderType)
	require.Len(t, payload.ClicksByService, 1)
	assert.Equal(t, "phone", payload.ClicksByService[0].ServiceName)
}

func TestStatsAndOrdersHonorDateParameters(t *testing.T) {
	app, db := newStatsTestApp(t)

	require.NoError(t, db.Create(&models.ProductOrder{
		ProductTitle: "old", CustomerPhone: "1", OrderType: models.ORDER_TYPE_MAIL,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.ProductOrder{
		ProductTitle: "fresh", CustomerPhone: "1", OrderType: models.ORDER_TYPE_MAIL,
	}).Error)

	since := time.Now().Add(-time.Hour).Format(time.RFC3339)

	status, body := getJSON(t, app, "/api/statistics/orders?start_date="+url.QueryEscape(since))
	require.Equal(t, fiber.StatusOK, status)
	var envelope struct {
		Total int64                 `json:"total"`
		Rows  []models.ProductOrder `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	assert.Equal(t, int64(1), envelope.Total)
	require.Len(t, envelope.Rows, 1)
	assert.Equal(t, "fresh", envelope.Rows[0].ProductTitle)

	status, body = getJSON(t, app, "/api/statistics/stats?start_date="+url.QueryEscape(since))
	require.Equal(t, fiber.StatusOK, status)
	var payload statsPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, int64(1), payload.TotalOrders)

	// the legacy camelCase spelling keeps working
	status, body = getJSON(t, app, "/api/statistics/orders?startDate="+url.QueryEscape(since))
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	assert.Equal(t, int64(1), envelope.Total)
}

func TestOrdersListingEnvelope(t *testing.T) {
	app, db := newStatsTestApp(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.ProductOrder{
			ProductTitle: "p", CustomerPhone: "1", OrderType: models.ORDER_TYPE_MAIL,
		}).Error)
	}

	status, body := getJSON(t, app, "/api/statistics/orders?limit=2")
	assert.Equal(t, fiber.StatusOK, status)

	var envelope struct {
		Page  int             `json:"page"`
		Limit int             `json:"limit"`
		Total int64           `json:"total"`
		Rows  json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	assert.Equal(t, 1, envelope.Page)
	assert.Equal(t, 2, envelope.Limit)
	assert.Equal(t, int64(3), envelope.Total)

	var rows []models.ProductOrder
	require.NoError(t, json.Unmarshal(envelope.Rows, &rows))
	assert.Len(t, rows, 2)
}
