package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/app/repository"
	"github.com/mkraiem/boutiqa/internal/pkg/sitemap"
	"github.com/mkraiem/boutiqa/internal/pkg/utils"
)

// ArticleController handles the /crud/articles resource.
type ArticleController struct {
	articles repository.ArticleRepository
	sitemap  *sitemap.Generator
}

func NewArticleController(articles repository.ArticleRepository, generator *sitemap.Generator) *ArticleController {
	return &ArticleController{articles: articles, sitemap: generator}
}

// HandleList serves the paginated article listing. Drafts stay hidden
// unless showDraft=true.
func (ac *ArticleController) HandleList(c *fiber.Ctx) error {
	result, err := ac.articles.List(repository.ArticleListQuery{
		Page:      c.QueryInt("page", 0),
		Limit:     c.QueryInt("limit", 0),
		Order:     c.Query("order"),
		Search:    c.Query("search"),
		ShowDraft: c.QueryBool("showDraft", false),
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(result)
}

// HandleShow serves one article by id.
func (ac *ArticleController) HandleShow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c)
	}
	article, err := ac.articles.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}
	return c.JSON(article)
}

// HandleShowBySlug serves one published article by slug. Drafts are
// not reachable through this route.
func (ac *ArticleController) HandleShowBySlug(c *fiber.Ctx) error {
	article, err := ac.articles.GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}
	if article.Status != models.ARTICLE_PUBLISHED {
		return notFound(c)
	}
	return c.JSON(article)
}

// HandleCreate creates an article from a multipart form (admin).
func (ac *ArticleController) HandleCreate(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Multipart form required")
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Title is required")
	}

	slug, err := utils.UniqueSlug(title, "article", ac.articles.SlugExists)
	if err != nil {
		return internalError(c, err)
	}

	article := &models.Article{
		Title:       title,
		Slug:        slug,
		AuthorName:  strPtr(c.FormValue("author_name")),
		Excerpt:     c.FormValue("excerpt"),
		ContentHTML: c.FormValue("content_html"),
		Status:      models.ARTICLE_DRAFT,
	}
	if status := c.FormValue("status"); status != "" {
		if status != models.ARTICLE_DRAFT && status != models.ARTICLE_PUBLISHED {
			return errorJSON(c, fiber.StatusBadRequest, "status must be draft or published")
		}
		article.Status = status
	}
	if article.Status == models.ARTICLE_PUBLISHED {
		now := time.Now()
		article.PublishedAt = &now
	}
	article.SeoTitle = strPtr(c.FormValue("seo_title"))
	article.SeoDescription = strPtr(c.FormValue("seo_description"))

	if path, err := saveUploadedFile(c, form, "thumbnail", slug); err != nil {
		return internalError(c, err)
	} else if path != "" {
		article.Thumbnail = &path
	}
	if paths, err := saveUploadedFiles(c, form, slug); err != nil {
		return internalError(c, err)
	} else if len(paths) > 0 {
		article.Gallery = paths
		if article.Thumbnail == nil {
			article.Thumbnail = &paths[0]
		}
	}

	if err := ac.articles.Create(article); err != nil {
		if isDuplicateKey(err) {
			return errorJSON(c, fiber.StatusBadRequest, "An article with this slug already exists")
		}
		return internalError(c, err)
	}

	if article.Status == models.ARTICLE_PUBLISHED {
		ac.sitemap.Regenerate()
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Article created", "id": article.ID, "slug": article.Slug})
}

type articleApplier struct {
	key   string
	apply func(a *models.Article, raw json.RawMessage) error
}

var articleFieldAppliers = []articleApplier{
	{"title", func(a *models.Article, raw json.RawMessage) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil || v == "" {
			return fmt.Errorf("title must be a non-empty string")
		}
		a.Title = v
		return nil
	}},
	{"author_name", func(a *models.Article, raw json.RawMessage) error {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("author_name must be a string or null")
		}
		a.AuthorName = v
		return nil
	}},
	{"excerpt", func(a *models.Article, raw json.RawMessage) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("excerpt must be a string")
		}
		a.Excerpt = v
		return nil
	}},
	{"content_html", func(a *models.Article, raw json.RawMessage) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("content_html must be a string")
		}
		a.ContentHTML = v
		return nil
	}},
	{"thumbnail", func(a *models.Article, raw json.RawMessage) error {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("thumbnail must be a string or null")
		}
		a.Thumbnail = v
		return nil
	}},
	{"gallery", func(a *models.Article, raw json.RawMessage) error {
		list, err := decodeGallery(raw)
		if err != nil {
			return err
		}
		a.Gallery = list
		return nil
	}},
	{"seo_title", func(a *models.Article, raw json.RawMessage) error {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("seo_title must be a string or null")
		}
		a.SeoTitle = v
		return nil
	}},
	{"seo_description", func(a *models.Article, raw json.RawMessage) error {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("seo_description must be a string or null")
		}
		a.SeoDescription = v
		return nil
	}},
}

// HandlePatch updates an article (admin). Publishing sets the
// published_at timestamp once; unpublishing keeps it.
func (ac *ArticleController) HandlePatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c)
	}
	article, err := ac.articles.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}

	if strings.Contains(c.Get(fiber.HeaderContentType), "multipart/form-data") {
		if status, msg := ac.applyMultipartPatch(c, article); msg != "" {
			return errorJSON(c, status, msg)
		}
	} else {
		var body map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid JSON")
		}
		for _, applier := range articleFieldAppliers {
			raw, ok := body[applier.key]
			if !ok {
				continue
			}
			if err := applier.apply(article, raw); err != nil {
				return errorJSON(c, fiber.StatusBadRequest, err.Error())
			}
		}
		if raw, ok := body["status"]; ok {
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return errorJSON(c, fiber.StatusBadRequest, "status must be a string")
			}
			if msg := ac.setStatus(article, v); msg != "" {
				return errorJSON(c, fiber.StatusBadRequest, msg)
			}
		}
	}

	if article.Slug == "" {
		slug, err := utils.UniqueSlug(article.Title, "article", ac.articles.SlugExists)
		if err != nil {
			return internalError(c, err)
		}
		article.Slug = slug
	}

	if err := ac.articles.Update(article); err != nil {
		if isDuplicateKey(err) {
			return errorJSON(c, fiber.StatusBadRequest, "An article with this slug already exists")
		}
		return internalError(c, err)
	}

	ac.sitemap.Regenerate()

	return c.JSON(fiber.Map{"ok": true})
}

func (ac *ArticleController) applyMultipartPatch(c *fiber.Ctx, article *models.Article) (int, string) {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.StatusBadRequest, "Multipart form required"
	}

	has := func(key string) bool {
		_, ok := form.Value[key]
		return ok
	}

	if has("title") {
		article.Title = c.FormValue("title")
		if slug := utils.Slugify(article.Title, ""); slug != "" && slug != article.Slug {
			article.Slug = slug
		}
	}
	if has("author_name") {
		article.AuthorName = strPtr(c.FormValue("author_name"))
	}
	if has("excerpt") {
		article.Excerpt = c.FormValue("excerpt")
	}
	if has("content_html") {
		article.ContentHTML = c.FormValue("content_html")
	}
	if has("seo_title") {
		article.SeoTitle = strPtr(c.FormValue("seo_title"))
	}
	if has("seo_description") {
		article.SeoDescription = strPtr(c.FormValue("seo_description"))
	}
	if has("status") {
		if msg := ac.setStatus(article, c.FormValue("status")); msg != "" {
			return fiber.StatusBadRequest, msg
		}
	}

	slug := article.Slug
	if slug == "" {
		slug = "article"
	}
	if path, err := saveUploadedFile(c, form, "thumbnail", slug); err != nil {
		log.Printf("article thumbnail upload failed: %v", err)
	} else if path != "" {
		article.Thumbnail = &path
	}
	if paths, err := saveUploadedFiles(c, form, slug); err != nil {
		log.Printf("article gallery upload failed: %v", err)
	} else if len(paths) > 0 {
		article.Gallery = mergeUnique(article.Gallery, paths)
	}

	return 0, ""
}

// setStatus applies a status transition. The first publish stamps
// published_at; later transitions leave it untouched.
func (ac *ArticleController) setStatus(article *models.Article, status string) string {
	if status != models.ARTICLE_DRAFT && status != models.ARTICLE_PUBLISHED {
		return "status must be draft or published"
	}
	if status == models.ARTICLE_PUBLISHED && article.PublishedAt == nil {
		now := time.Now()
		article.PublishedAt = &now
	}
	article.Status = status
	return ""
}

// HandleDelete removes an article and its uploaded images (admin).
func (ac *ArticleController) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c)
	}
	article, err := ac.articles.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}

	if article.Slug != "" {
		dir := filepath.Join(uploadRoot(), "images", article.Slug)
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("failed to remove upload dir %s: %v", dir, err)
		}
	}

	if err := ac.articles.Delete(article.ID); err != nil {
		return internalError(c, err)
	}

	ac.sitemap.Regenerate()

	return c.JSON(fiber.Map{"message": "Article and images deleted"})
}
