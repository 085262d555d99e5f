package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkraiem/boutiqa/app/models"
	"github.com/mkraiem/boutiqa/app/repository"
	"github.com/mkraiem/boutiqa/internal/pkg/env"
	"github.com/mkraiem/boutiqa/internal/pkg/token"
)

// AuthController issues access and refresh tokens for backoffice
// accounts.
type AuthController struct {
	users repository.UserRepository
}

func NewAuthController(users repository.UserRepository) *AuthController {
	return &AuthController{users: users}
}

func refreshTTL() time.Duration {
	days, err := strconv.Atoi(env.GetEnv("REFRESH_TTL_DAYS", "30"))
	if err != nil || days < 1 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

func authError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"code": fiber.StatusUnauthorized, "message": msg})
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies the credentials and returns a JWT plus a
// DB-backed refresh token.
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var body loginBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if body.Email == "" || body.Password == "" {
		return errorJSON(c, fiber.StatusBadRequest, "email and password are required")
	}

	user, err := ac.users.GetByEmail(body.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authError(c, "Invalid credentials")
		}
		return internalError(c, err)
	}
	if !user.IsActive || !user.CheckPassword(body.Password) {
		return authError(c, "Invalid credentials")
	}

	accessToken, err := token.CreateAccessToken(user)
	if err != nil {
		return internalError(c, err)
	}

	refresh := &models.RefreshToken{
		Token:    uuid.NewString(),
		Username: user.Email,
		Valid:    time.Now().Add(refreshTTL()),
	}
	if err := ac.users.SaveRefreshToken(refresh); err != nil {
		return internalError(c, err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := ac.users.Update(user); err != nil {
		log.Printf("could not record last login for %s: %v", user.Email, err)
	}

	return c.JSON(fiber.Map{
		"token":         accessToken,
		"refresh_token": refresh.Token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

// HandleRefresh exchanges a valid refresh token for a new JWT. The
// refresh token is rotated on every use.
func (ac *AuthController) HandleRefresh(c *fiber.Ctx) error {
	var body refreshBody
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.RefreshToken == "" {
		return errorJSON(c, fiber.StatusBadRequest, "refresh_token is required")
	}

	stored, err := ac.users.GetRefreshToken(body.RefreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authError(c, "Unknown refresh token")
		}
		return internalError(c, err)
	}
	if stored.Expired(time.Now()) {
		if err := ac.users.DeleteRefreshToken(stored.Token); err != nil {
			log.Printf("could not prune expired refresh token: %v", err)
		}
		return authError(c, "Refresh token expired")
	}

	user, err := ac.users.GetByEmail(stored.Username)
	if err != nil || !user.IsActive {
		return authError(c, "Account no longer active")
	}

	accessToken, err := token.CreateAccessToken(user)
	if err != nil {
		return internalError(c, err)
	}

	rotated := &models.RefreshToken{
		Token:    uuid.NewString(),
		Username: user.Email,
		Valid:    time.Now().Add(refreshTTL()),
	}
	if err := ac.users.SaveRefreshToken(rotated); err != nil {
		return internalError(c, err)
	}
	if err := ac.users.DeleteRefreshToken(stored.Token); err != nil {
		log.Printf("could not delete rotated refresh token: %v", err)
	}

	return c.JSON(fiber.Map{
		"token":         accessToken,
		"refresh_token": rotated.Token,
	})
}
