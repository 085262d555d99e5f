package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/mkraiem/boutiqa/app/controllers"
	"github.com/mkraiem/boutiqa/app/repository"
	"github.com/mkraiem/boutiqa/internal/pkg/env"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

// rateLimiter shares its counters across instances through Redis so
// the tracking endpoints stay abuse-resistant behind a load balancer.
func rateLimiter() fiber.Handler {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		Storage: redisstorage.New(redisstorage.Config{
			Host:     env.GetEnv("CACHE_HOST", "localhost"),
			Port:     port,
			Password: env.GetEnv("CACHE_PASSWORD", ""),
		}),
	})
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	factory := repository.GetGlobalFactory()
	statistics := controllers.NewStatisticsController(factory.GetOrderRepository(), factory.GetClickRepository())
	orderMail := controllers.NewOrderMailController()

	api := app.Group("/api", rateLimiter())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	stats := api.Group("/statistics")
	stats.Post("/service-click", statistics.HandleServiceClick)
	stats.Post("/product-order", statistics.HandleProductOrder)
	stats.Get("/stats", statistics.HandleStats)
	stats.Get("/orders", statistics.HandleOrders)

	api.Post("/orders/send", orderMail.HandleSend)
}
