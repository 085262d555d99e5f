package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mkraiem/boutiqa/internal/pkg/sitemap"
)

// SitemapController serves and regenerates the sitemap.
type SitemapController struct {
	generator *sitemap.Generator
}

func NewSitemapController(generator *sitemap.Generator) *SitemapController {
	return &SitemapController{generator: generator}
}

// HandleGet serves the sitemap XML built from the current catalog.
func (sc *SitemapController) HandleGet(c *fiber.Ctx) error {
	data, err := sc.generator.Generate()
	if err != nil {
		return internalError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.Send(data)
}

// HandleRegenerate rewrites the sitemap files on disk (admin).
func (sc *SitemapController) HandleRegenerate(c *fiber.Ctx) error {
	sc.generator.Regenerate()
	return c.JSON(fiber.Map{"message": "Sitemap regenerated"})
}
