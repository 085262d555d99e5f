package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mkraiem/boutiqa/app/controllers"
	"github.com/mkraiem/boutiqa/app/repository"
	"github.com/mkraiem/boutiqa/internal/pkg/middleware"
	"github.com/mkraiem/boutiqa/internal/pkg/sitemap"
)

type HttpRouter struct {
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	factory := repository.GetGlobalFactory()
	generator := sitemap.NewGenerator(factory.GetProductRepository(), factory.GetArticleRepository())

	products := controllers.NewProductController(factory.GetProductRepository(), factory.GetCategoryRepository(), generator)
	categories := controllers.NewCategoryController(factory.GetCategoryRepository())
	articles := controllers.NewArticleController(factory.GetArticleRepository(), generator)
	auth := controllers.NewAuthController(factory.GetUserRepository())
	sitemapCtl := controllers.NewSitemapController(generator)

	// Public read surface
	crud := app.Group("/crud")
	crud.Get("/products", products.HandleList)
	crud.Get("/products/:id<int>", products.HandleShow)
	crud.Get("/categories", categories.HandleList)
	crud.Get("/categories/:id<int>", categories.HandleShow)
	crud.Get("/articles", articles.HandleList)
	crud.Get("/articles/slug/:slug", articles.HandleShowBySlug)
	crud.Get("/articles/:id<int>", articles.HandleShow)

	app.Get("/sitemap", sitemapCtl.HandleGet)

	// Auth
	app.Post("/auth/login", auth.HandleLogin)
	app.Post("/auth/refresh", auth.HandleRefresh)

	// Admin mutations
	admin := crud.Group("", middleware.RequireAuth, middleware.RequireAdmin)
	admin.Post("/products/upload", products.HandleCreate)
	admin.Patch("/products/:id<int>", products.HandlePatch)
	admin.Delete("/products/:id<int>", products.HandleDelete)
	admin.Post("/categories", categories.HandleCreate)
	admin.Patch("/categories/:id<int>", categories.HandlePatch)
	admin.Delete("/categories/:id<int>", categories.HandleDelete)
	admin.Post("/articles/upload", articles.HandleCreate)
	admin.Patch("/articles/:id<int>", articles.HandlePatch)
	admin.Delete("/articles/:id<int>", articles.HandleDelete)

	app.Post("/sitemap", middleware.RequireAuth, middleware.RequireAdmin, sitemapCtl.HandleRegenerate)
}
