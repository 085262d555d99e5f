package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/app/repository"
	"github.com/mkraiem/boutiqa/internal/pkg/cache"
)

const (
	statsCacheKey = "statistics:stats"
	statsCacheTTL = 60 * time.Second
)

// StatisticsController tracks service clicks and product orders and
// serves the aggregated stats.
type StatisticsController struct {
	orders   repository.OrderRepository
	clicks   repository.ClickRepository
	validate *validator.Validate
	useCache bool
}

func NewStatisticsController(orders repository.OrderRepository, clicks repository.ClickRepository) *StatisticsController {
	return &StatisticsController{
		orders:   orders,
		clicks:   clicks,
		validate: validator.New(),
		useCache: true,
	}
}

type serviceClickBody struct {
	ServiceName string `json:"service_name" validate:"required,max=255"`
}

// HandleServiceClick records one click on an external service link.
func (sc *StatisticsController) HandleServiceClick(c *fiber.Ctx) error {
	var body serviceClickBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if err := sc.validate.Struct(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "service_name is required")
	}

	userAgent, ip := clientMeta(c)
	click := &models.ServiceClick{
		ServiceName: body.ServiceName,
		UserAgent:   userAgent,
		IPAddress:   ip,
		CreatedAt:   time.Now(),
	}
	if err := sc.clicks.Create(click); err != nil {
		return internalError(c, err)
	}

	sc.invalidateStatsCache()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": click.ID})
}

type productOrderBody struct {
	ProductID        *uint   `json:"product_id"`
	ProductReference *string `json:"product_reference"`
	ProductTitle     string  `json:"product_title" validate:"required,max=500"`
	CustomerEmail    *string `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone    string  `json:"customer_phone" validate:"required,max=50"`
	OrderType        string  `json:"order_type" validate:"required,oneof=mail whatsapp"`
}

// HandleProductOrder records one order intent. A matching order from
// the same phone within the duplicate window is reported instead of
// inserted again.
func (sc *StatisticsController) HandleProductOrder(c *fiber.Ctx) error {
	var body productOrderBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if err := sc.validate.Struct(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "product_title, customer_phone and a valid order_type are required")
	}

	userAgent, ip := clientMeta(c)
	order := &models.ProductOrder{
		ProductID:        body.ProductID,
		ProductReference: body.ProductReference,
		ProductTitle:     body.ProductTitle,
		CustomerEmail:    body.CustomerEmail,
		CustomerPhone:    body.CustomerPhone,
		OrderType:        body.OrderType,
		UserAgent:        userAgent,
		IPAddress:        ip,
		CreatedAt:        time.Now(),
	}

	existing, err := sc.orders.FindRecentDuplicate(order, repository.DuplicateWindow)
	if err != nil {
		return internalError(c, err)
	}
	if existing != nil {
		return c.JSON(fiber.Map{"success": true, "id": existing.ID, "duplicate": true})
	}

	if err := sc.orders.Create(order); err != nil {
		return internalError(c, err)
	}

	sc.invalidateStatsCache()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": order.ID, "duplicate": false})
}

// statsPayload is the aggregated statistics response.
type statsPayload struct {
	TotalOrders     int64                     `json:"total_orders"`
	OrdersByType    []repository.TypeCount    `json:"orders_by_type"`
	TopProducts     []repository.ProductCount `json:"top_products"`
	TotalClicks     int64                     `json:"total_clicks"`
	ClicksByService []repository.ServiceCount `json:"clicks_by_service"`
}

// HandleStats serves the aggregated statistics. The unfiltered result
// is cached for a minute.
func (sc *StatisticsController) HandleStats(c *fiber.Ctx) error {
	start := parseDateQuery(dateQuery(c, "start_date", "startDate"), false)
	end := parseDateQuery(dateQuery(c, "end_date", "endDate"), true)
	cacheable := sc.useCache && start == nil && end == nil

	if cacheable {
		if raw, err := cache.Get(statsCacheKey); err == nil && raw != "" {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(raw)
		}
	}

	payload := statsPayload{}
	var err error
	if payload.TotalOrders, err = sc.orders.CountBetween(start, end); err != nil {
		return internalError(c, err)
	}
	if payload.OrdersByType, err = sc.orders.CountByType(); err != nil {
		return internalError(c, err)
	}
	if payload.TopProducts, err = sc.orders.TopProducts(10); err != nil {
		return internalError(c, err)
	}
	if payload.TotalClicks, err = sc.clicks.CountBetween(start, end); err != nil {
		return internalError(c, err)
	}
	if payload.ClicksByService, err = sc.clicks.CountByService(); err != nil {
		return internalError(c, err)
	}

	if cacheable {
		if encoded, err := json.Marshal(payload); err == nil {
			if err := cache.Set(statsCacheKey, string(encoded), statsCacheTTL); err != nil {
				log.Printf("stats cache write failed: %v", err)
			}
		}
	}

	return c.JSON(payload)
}

// HandleOrders serves the paginated order log, newest first.
func (sc *StatisticsController) HandleOrders(c *fiber.Ctx) error {
	result, err := sc.orders.List(repository.OrderListQuery{
		Page:      c.QueryInt("page", 0),
		Limit:     c.QueryInt("limit", 0),
		StartDate: parseDateQuery(dateQuery(c, "start_date", "startDate"), false),
		EndDate:   parseDateQuery(dateQuery(c, "end_date", "endDate"), true),
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(result)
}

func (sc *StatisticsController) invalidateStatsCache() {
	if !sc.useCache {
		return
	}
	if err := cache.Delete(statsCacheKey); err != nil {
		log.Printf("stats cache invalidation failed: %v", err)
	}
}

// dateQuery reads the snake_case date parameter, falling back to the
// camelCase spelling some older clients still send.
func dateQuery(c *fiber.Ctx, key, legacyKey string) string {
	if raw := c.Query(key); raw != "" {
		return raw
	}
	return c.Query(legacyKey)
}

// parseDateQuery accepts YYYY-MM-DD or RFC 3339 values. Bare dates
// used as an end bound are pushed to the end of that day.
func parseDateQuery(raw string, endOfDay bool) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}
