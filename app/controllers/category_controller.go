package controllers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/app/repository"
	"github.com/mkraiem/boutiqa/internal/pkg/utils"
)

// CategoryController handles the /crud/categories resource.
type CategoryController struct {
	categories repository.CategoryRepository
}

func NewCategoryController(categories repository.CategoryRepository) *CategoryController {
	return &CategoryController{categories: categories}
}

// HandleList serves the paginated category listing.
func (cc *CategoryController) HandleList(c *fiber.Ctx) error {
	result, err := cc.categories.List(repository.CategoryListQuery{
		Page:   c.QueryInt("page", 0),
		Limit:  c.QueryInt("limit", 0),
		Order:  c.Query("order"),
		Search: c.Query("search"),
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(result)
}

// HandleShow serves one category.
func (cc *CategoryController) HandleShow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c)
	}
	category, err := cc.categories.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}
	return c.JSON(category)
}

type categoryBody struct {
	Name     *string `json:"name"`
	ParentID *uint   `json:"parent_id"`
	Position *int    `json:"position"`
	IsActive *bool   `json:"is_active"`
}

// HandleCreate creates a category (admin).
func (cc *CategoryController) HandleCreate(c *fiber.Ctx) error {
	var body categoryBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if body.Name == nil || *body.Name == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Name is required")
	}

	category := &models.Category{
		Name:     *body.Name,
		Slug:     utils.Slugify(*body.Name, "category"),
		ParentID: body.ParentID,
		IsActive: true,
	}
	if body.Position != nil {
		category.Position = *body.Position
	}
	if body.IsActive != nil {
		category.IsActive = *body.IsActive
	}
	if category.ParentID != nil {
		if _, err := cc.categories.GetByID(*category.ParentID); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Parent category not found")
		}
	}

	if err := cc.categories.Create(category); err != nil {
		if isDuplicateKey(err) {
			return errorJSON(c, fiber.StatusBadRequest, "A category with this name already exists")
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Category created", "id": category.ID})
}

// HandlePatch updates a category (admin). Only present keys are
// applied.
func (cc *CategoryController) HandlePatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c)
	}
	category, err := cc.categories.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	if raw, ok := body["name"]; ok {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil || v == "" {
			return errorJSON(c, fiber.StatusBadRequest, "name must be a non-empty string")
		}
		category.Name = v
		category.Slug = utils.Slugify(v, category.Slug)
	}
	if raw, ok := body["parent_id"]; ok {
		var v *uint
		if err := json.Unmarshal(raw, &v); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "parent_id must be an integer or null")
		}
		if v != nil {
			if *v == category.ID {
				return errorJSON(c, fiber.StatusBadRequest, "A category cannot be its own parent")
			}
			if _, err := cc.categories.GetByID(*v); err != nil {
				return errorJSON(c, fiber.StatusBadRequest, "Parent category not found")
			}
		}
		category.ParentID = v
		category.Parent = nil
	}
	if raw, ok := body["position"]; ok {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "position must be an integer")
		}
		category.Position = v
	}
	if raw, ok := body["is_active"]; ok {
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "is_active must be a boolean")
		}
		category.IsActive = v
	}

	if err := cc.categories.Update(category); err != nil {
		if isDuplicateKey(err) {
			return errorJSON(c, fiber.StatusBadRequest, "A category with this name already exists")
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleDelete removes a category (admin). Products still referencing
// it keep their foreign key and fail the delete at the database level.
func (cc *CategoryController) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c)
	}
	if _, err := cc.categories.GetByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c)
		}
		return internalError(c, err)
	}
	if err := cc.categories.Delete(uint(id)); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot delete category: %v", err))
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
