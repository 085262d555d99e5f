package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/internal/pkg/token"
)

const (
	KeyUserID = "auth_user_id"
	KeyEmail  = "auth_email"
	KeyRole   = "auth_role"
)

func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth ensures a valid bearer token and stores the claims in the
// request locals.
func RequireAuth(c *fiber.Ctx) error {
	raw := extractBearerToken(c)
	if raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing bearer token"})
	}

	claims, err := token.Parse(raw)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid or expired token"})
	}

	c.Locals(KeyUserID, claims.UserID)
	c.Locals(KeyEmail, claims.Email)
	c.Locals(KeyRole, claims.Role)
	return c.Next()
}

// RequireAdmin ensures the authenticated user carries the admin role.
// Must run after RequireAuth.
func RequireAdmin(c *fiber.Ctx) error {
	if role, ok := c.Locals(KeyRole).(string); !ok || role != models.ROLE_ADMIN {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Admin role required"})
	}
	return c.Next()
}
