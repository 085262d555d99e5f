package controllers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mkraiem/boutiqa/internal/pkg/env"
)

// errorJSON writes the uniform error envelope.
func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// internalError hides failure detail in production and surfaces it in
// dev (APP_ENV=dev).
func internalError(c *fiber.Ctx, err error) error {
	if env.IsDev() {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return errorJSON(c, fiber.StatusInternalServerError, "Internal error")
}

func notFound(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusNotFound, "Not found")
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clientMeta(c *fiber.Ctx) (userAgent, ip *string) {
	return strPtr(c.Get(fiber.HeaderUserAgent)), strPtr(c.IP())
}

// parseBoolLoose mirrors the form-value truthiness the frontend sends
// for checkbox-like fields.
func parseBoolLoose(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "on":
		return true
	}
	return false
}

// isDuplicateKey detects unique index violations across the MySQL and
// sqlite drivers.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

func uploadRoot() string {
	return env.GetEnv("UPLOAD_DIR", "uploads")
}

// saveUploadedFiles stores every file of the multipart field under
// <uploadRoot>/images/<slug>/ with a unique name and returns the
// relative paths. The form field may be named "images" or "images[]".
func saveUploadedFiles(c *fiber.Ctx, form *multipart.Form, slug string) ([]string, error) {
	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["images[]"]
	}

	dir := filepath.Join(uploadRoot(), "images", slug)
	if err := os.MkdirAll(dir, 0o775); err != nil {
		return nil, err
	}

	var saved []string
	for _, file := range files {
		name := uniqueFileName(file.Filename)
		if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		saved = append(saved, fmt.Sprintf("images/%s/%s", slug, name))
	}
	return saved, nil
}

// saveUploadedFile stores a single named multipart file (thumbnail) and
// returns its relative path, or "" when the field is absent.
func saveUploadedFile(c *fiber.Ctx, form *multipart.Form, field, slug string) (string, error) {
	files := form.File[field]
	if len(files) == 0 {
		return "", nil
	}

	dir := filepath.Join(uploadRoot(), "images", slug)
	if err := os.MkdirAll(dir, 0o775); err != nil {
		return "", err
	}

	name := uniqueFileName(files[0].Filename)
	if err := c.SaveFile(files[0], filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return fmt.Sprintf("images/%s/%s", slug, name), nil
}

func uniqueFileName(original string) string {
	safe := strings.Join(strings.Fields(filepath.Base(original)), "-")
	return uuid.NewString()[:8] + "-" + safe
}

// mergeUnique appends the new paths to the existing gallery, dropping
// duplicates while preserving order.
func mergeUnique(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, p := range append(append([]string{}, existing...), added...) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
