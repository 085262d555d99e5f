package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/app/repository"
	"github.com/mkraiem/boutiqa/internal/pkg/sitemap"
	"github.com/mkraiem/boutiqa/internal/pkg/utils"
)

// ProductController handles the /crud/products resource.
type ProductController struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	sitemap    *sitemap.Generator
}

// NewProductController creates a product controller over the given
// repositories.
func NewProductController(products repository.ProductRepository, categories repository.CategoryRepository, generator *sitemap.Generator) *ProductController {
	return &ProductController{products: products, categories: categories, sitemap: generator}
}

// HandleList serves the paginated, filtered product listing.
func (pc *ProductController) HandleList(c *fiber.Ctx) error {
	q := repository.ProductListQuery{
		Page:         c.QueryInt("page", 0),
		Limit:        c.QueryInt("limit", 0),
		Order:        c.Query("order"),
		Search:       c.Query("search"),
		ShowInactive: c.QueryBool("showInactive", false),
	}

	if raw := c.Query("categoryId"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			v := uint(id)
			q.CategoryID = &v
		}
	}
	if raw := c.Query("subCategoryId"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			v := uint(id)
			q.SubCategoryID = &v
		}
	}
	if raw := c.Query("isLandingPage"); raw != "" {
		v := parseBoolLoose(raw)
		q.IsLandingPage = &v
	}

	result, err := pc.products.List(q)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(result)
}

// HandleShow serves one product with its nested details record.
func (pc *ProductController) HandleShow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c)
	}

	product, err := pc.products.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}

	response := fiber.Map{
		"id":                product.ID,
		"title":             product.Title,
		"slug":              product.Slug,
		"reference":         product.Reference,
		"price":             product.Price,
		"currency":          product.Currency,
		"thumbnail":         product.Thumbnail,
		"gallery":           product.Gallery,
		"short_description": product.ShortDescription,
		"description_html":  product.DescriptionHTML,
		"seo_title":         product.SeoTitle,
		"seo_description":   product.SeoDescription,
		"is_active":         product.IsActive,
		"is_landing_page":   product.IsLandingPage,
		"position":          product.Position,
		"category_id":       product.CategoryID,
		"sub_category_id":   product.SubCategoryID,
		"details":           product.Details,
	}
	if product.Category != nil {
		response["category_name"] = product.Category.Name
	}
	if product.SubCategory != nil {
		response["sub_category_name"] = product.SubCategory.Name
	}
	return c.JSON(response)
}

// HandleCreate creates a product from a multipart form with at least
// one gallery image (admin).
func (pc *ProductController) HandleCreate(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Multipart form required")
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Title is required")
	}

	if len(form.File["images"])+len(form.File["images[]"]) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "No image provided")
	}

	categoryID, err := strconv.ParseUint(c.FormValue("category_id"), 10, 32)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Category not found")
	}
	category, err := pc.categories.GetByID(uint(categoryID))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Category not found")
	}

	slug, err := utils.UniqueSlug(title, "product", pc.products.SlugExists)
	if err != nil {
		return internalError(c, err)
	}

	paths, err := saveUploadedFiles(c, form, slug)
	if err != nil {
		return internalError(c, err)
	}

	product := &models.Product{
		Title:           title,
		Slug:            slug,
		Reference:       strPtr(strings.TrimSpace(c.FormValue("reference"))),
		DescriptionHTML: c.FormValue("description"),
		CategoryID:      category.ID,
		SubCategoryID:   category.ID,
		Gallery:         paths,
		IsActive:        true,
	}
	if raw := c.FormValue("price"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			product.Price = &price
		}
	}
	if raw := c.FormValue("is_active"); raw != "" {
		product.IsActive = parseBoolLoose(raw)
	}
	if len(paths) > 0 {
		product.Thumbnail = &paths[0]
	}

	if err := pc.products.Create(product); err != nil {
		if isDuplicateKey(err) {
			return errorJSON(c, fiber.StatusBadRequest, "A unique value already exists (slug or reference)")
		}
		return internalError(c, err)
	}

	pc.sitemap.Regenerate()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created",
		"id":      product.ID,
		"images":  paths,
	})
}

// productApplier binds one JSON key to its validated apply function.
// The table replaces dynamic setter dispatch: absent keys are skipped,
// present keys run in this fixed order.
type productApplier struct {
	key   string
	apply func(p *models.Product, raw json.RawMessage) error
}

var productFieldAppliers = []productApplier{
	{"title", func(p *models.Product, raw json.RawMessage) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("title must be a string")
		}
		p.Title = v
		return nil
	}},
	{"reference", func(p *models.Product, raw json.RawMessage) error {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("reference must be a string or null")
		}
		// Normalize empty string to NULL to avoid unique index conflicts on ''
		if v != nil && strings.TrimSpace(*v) == "" {
			v = nil
		}
		p.Reference = v
		return nil
	}},
	{"short_description", func(p *models.Product, raw json.RawMessage) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("short_description must be a string")
		}
		p.ShortDescription = v
		return nil
	}},
	{"description_html", func(p *models.Product, raw json.RawMessage) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("description_html must be a string")
		}
		p.DescriptionHTML = v
		return nil
	}},
	{"thumbnail", func(p *models.Product, raw json.RawMessage) error {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("thumbnail must be a string or null")
		}
		p.Thumbnail = v
		return nil
	}},
	{"gallery", func(p *models.Product, raw json.RawMessage) error {
		list, err := decodeGallery(raw)
		if err != nil {
			return err
		}
		p.Gallery = list
		return nil
	}},
	{"price", func(p *models.Product, raw json.RawMessage) error {
		var v *float64
		if err := json.Unmarshal(raw, &v); err != nil {
			// Frontend sometimes sends the price as a string
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("price must be a number or null")
			}
			if s == "" {
				p.Price = nil
				return nil
			}
			parsed, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("price must be a number or null")
			}
			v = &parsed
		}
		p.Price = v
		return nil
	}},
	{"is_active", func(p *models.Product, raw json.RawMessage) error {
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("is_active must be a boolean")
		}
		p.IsActive = v
		return nil
	}},
	{"position", func(p *models.Product, raw json.RawMessage) error {
		var v *int
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("position must be an integer or null")
		}
		p.Position = v
		return nil
	}},
	{"seo_title", func(p *models.Product, raw json.RawMessage) error {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("seo_title must be a string or null")
		}
		p.SeoTitle = v
		return nil
	}},
	{"seo_description", func(p *models.Product, raw json.RawMessage) error {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("seo_description must be a string or null")
		}
		p.SeoDescription = v
		return nil
	}},
}

// decodeGallery accepts a JSON array of paths or a string holding the
// encoded array (the admin form serializes it both ways).
func decodeGallery(raw json.RawMessage) (models.StringList, error) {
	var list models.StringList
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("gallery must be an array of paths")
	}
	if s == "" {
		return models.StringList{}, nil
	}
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return models.StringList{}, nil
	}
	return list, nil
}

// HandlePatch updates a product from a JSON body or a multipart form
// (admin). JSON keys run through the applier table; relational and
// capped fields are handled explicitly afterwards.
func (pc *ProductController) HandlePatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c)
	}

	product, err := pc.products.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}

	if strings.Contains(c.Get(fiber.HeaderContentType), "multipart/form-data") {
		if status, msg := pc.applyMultipartPatch(c, product); msg != "" {
			return errorJSON(c, status, msg)
		}
	} else {
		var body map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid JSON")
		}

		for _, applier := range productFieldAppliers {
			raw, ok := body[applier.key]
			if !ok {
				continue
			}
			if err := applier.apply(product, raw); err != nil {
				return errorJSON(c, fiber.StatusBadRequest, err.Error())
			}
		}

		if raw, ok := body["is_landing_page"]; ok {
			var v bool
			if err := json.Unmarshal(raw, &v); err != nil {
				return errorJSON(c, fiber.StatusBadRequest, "is_landing_page must be a boolean")
			}
			if status, msg := pc.setLandingPage(product, v); msg != "" {
				return errorJSON(c, status, msg)
			}
		}
		if raw, ok := body["category_id"]; ok {
			var v *uint
			if err := json.Unmarshal(raw, &v); err != nil {
				return errorJSON(c, fiber.StatusBadRequest, "category_id must be an integer or null")
			}
			if v != nil {
				category, err := pc.categories.GetByID(*v)
				if err != nil {
					return notFound(c)
				}
				product.CategoryID = category.ID
				if product.SubCategoryID == 0 {
					product.SubCategoryID = category.ID
				}
			}
		}
	}

	// Slug is a required unique field; regenerate when lost
	if product.Slug == "" {
		slug, err := utils.UniqueSlug(product.Title, "product", pc.products.SlugExists)
		if err != nil {
			return internalError(c, err)
		}
		product.Slug = slug
	}
	if product.SubCategoryID == 0 {
		product.SubCategoryID = product.CategoryID
	}
	// drop preloaded associations so Save only touches the product row
	product.Details = nil
	product.Category = nil
	product.SubCategory = nil

	if err := pc.products.Update(product); err != nil {
		if isDuplicateKey(err) {
			return errorJSON(c, fiber.StatusBadRequest, "A unique value already exists (slug or reference)")
		}
		return internalError(c, err)
	}

	pc.syncDetails(c, product)
	pc.sitemap.Regenerate()

	return c.JSON(fiber.Map{"ok": true})
}

// applyMultipartPatch mutates the product from form fields and uploaded
// files. Returns a non-empty message on client error.
func (pc *ProductController) applyMultipartPatch(c *fiber.Ctx, product *models.Product) (int, string) {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.StatusBadRequest, "Multipart form required"
	}

	has := func(key string) bool {
		_, ok := form.Value[key]
		return ok
	}

	if has("title") {
		product.Title = c.FormValue("title")
		if slug := utils.Slugify(product.Title, ""); slug != "" && slug != product.Slug {
			product.Slug = slug
		}
	}
	if has("reference") {
		product.Reference = strPtr(strings.TrimSpace(c.FormValue("reference")))
	}
	if has("description_html") {
		product.DescriptionHTML = c.FormValue("description_html")
	}
	if has("short_description") {
		product.ShortDescription = c.FormValue("short_description")
	}
	if has("price") {
		raw := c.FormValue("price")
		if raw == "" {
			product.Price = nil
		} else if price, err := strconv.ParseFloat(raw, 64); err == nil {
			product.Price = &price
		}
	}
	if has("is_active") {
		product.IsActive = parseBoolLoose(c.FormValue("is_active"))
	}
	if has("is_landing_page") {
		if status, msg := pc.setLandingPage(product, parseBoolLoose(c.FormValue("is_landing_page"))); msg != "" {
			return status, msg
		}
	}
	if has("position") {
		raw := c.FormValue("position")
		if raw == "" {
			product.Position = nil
		} else if pos, err := strconv.Atoi(raw); err == nil {
			product.Position = &pos
		}
	}
	if has("category_id") {
		if id, err := strconv.ParseUint(c.FormValue("category_id"), 10, 32); err == nil {
			if category, err := pc.categories.GetByID(uint(id)); err == nil {
				product.CategoryID = category.ID
				if product.SubCategoryID == 0 {
					product.SubCategoryID = category.ID
				}
			}
		}
	}
	if has("gallery") {
		if list, err := decodeGallery(json.RawMessage(strconv.Quote(c.FormValue("gallery")))); err == nil {
			product.Gallery = list
		}
	}

	slug := product.Slug
	if slug == "" {
		slug = "product"
	}
	if path, err := saveUploadedFile(c, form, "thumbnail", slug); err != nil {
		log.Printf("product thumbnail upload failed: %v", err)
	} else if path != "" {
		product.Thumbnail = &path
	}
	if paths, err := saveUploadedFiles(c, form, slug); err != nil {
		log.Printf("product gallery upload failed: %v", err)
	} else if len(paths) > 0 {
		product.Gallery = mergeUnique(product.Gallery, paths)
	}

	return 0, ""
}

// setLandingPage flips the landing-page flag, enforcing the cap on
// concurrently featured products.
func (pc *ProductController) setLandingPage(product *models.Product, value bool) (int, string) {
	if value && !product.IsLandingPage {
		count, err := pc.products.CountLandingPage(product.ID)
		if err != nil {
			return fiber.StatusInternalServerError, "Internal error"
		}
		if count >= models.MaxLandingPageProducts {
			return fiber.StatusBadRequest, fmt.Sprintf("At most %d products can be featured on the landing page", models.MaxLandingPageProducts)
		}
	}
	product.IsLandingPage = value
	return 0, ""
}

// syncDetails auto-populates the details side table from the product
// (SKU from reference, SEO description from the short description,
// schema category from the category name). Best-effort: failures are
// logged, the update itself already succeeded.
func (pc *ProductController) syncDetails(c *fiber.Ctx, product *models.Product) {
	details := &models.ProductDetails{
		ProductID:      product.ID,
		SKU:            product.Reference,
		SeoDescription: strPtr(product.ShortDescription),
		Availability:   "InStock",
	}
	if category, err := pc.categories.GetByID(product.CategoryID); err == nil {
		details.CategorySchema = &category.Name
	}

	if strings.Contains(c.Get(fiber.HeaderContentType), "multipart/form-data") {
		if form, err := c.MultipartForm(); err == nil {
			if v, ok := form.Value["details_brand"]; ok && len(v) > 0 {
				details.Brand = strPtr(v[0])
			}
			if v, ok := form.Value["details_availability"]; ok && len(v) > 0 && v[0] != "" {
				details.Availability = v[0]
			}
		}
	}

	if err := pc.products.UpsertDetails(details); err != nil {
		log.Printf("product %d details sync failed: %v", product.ID, err)
	}
}

// HandleDelete removes a product and its uploaded images (admin).
func (pc *ProductController) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c)
	}

	product, err := pc.products.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}

	if product.Slug != "" {
		dir := filepath.Join(uploadRoot(), "images", product.Slug)
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("failed to remove upload dir %s: %v", dir, err)
		}
	}

	if err := pc.products.Delete(product.ID); err != nil {
		return internalError(c, err)
	}

	pc.sitemap.Regenerate()

	return c.JSON(fiber.Map{"message": "Product and images deleted"})
}
