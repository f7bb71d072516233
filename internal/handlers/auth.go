package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"marcenapp/pkg/auth"
)

// AuthHandler handles the single-workshop login. There are no accounts to
// manage: one password unlocks the workshop's data.
type AuthHandler struct {
	jwtAuth      *auth.LocalJWTAuth
	workshop     string
	passwordHash string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtAuth *auth.LocalJWTAuth, workshop, passwordHash string) *AuthHandler {
	return &AuthHandler{jwtAuth: jwtAuth, workshop: workshop, passwordHash: passwordHash}
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Password string `json:"password"`
}

// Login verifies the workshop password and issues the token pair
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}

	valid, err := auth.VerifyPassword(h.passwordHash, req.Password)
	if err != nil || !valid {
		if err != nil {
			log.Printf("⚠️ Password verification failed: %v", err)
		}
		// Flat delay keeps timing uniform across failure causes.
		time.Sleep(200 * time.Millisecond)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Senha incorreta",
		})
	}

	accessToken, refreshToken, err := h.jwtAuth.GenerateTokens(h.workshop)
	if err != nil {
		log.Printf("❌ Failed to generate tokens: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao gerar credenciais",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(h.jwtAuth.RefreshTokenExpiry),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: "Strict",
		Path:     "/api/auth",
	})

	log.Printf("✅ Workshop logged in: %s", h.workshop)

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(h.jwtAuth.AccessTokenExpiry.Seconds()),
	})
}

// RefreshTokenRequest is the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh issues a new access token from a valid refresh token
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var req RefreshTokenRequest
		if err := c.BodyParser(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return badRequest(c, "Token de renovação é obrigatório")
	}

	claims, err := h.jwtAuth.VerifyRefreshToken(refreshToken)
	if err != nil || claims.Workshop != h.workshop {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Sessão expirada. Entre novamente.",
		})
	}

	accessToken, _, err := h.jwtAuth.GenerateTokens(h.workshop)
	if err != nil {
		log.Printf("❌ Failed to refresh token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao renovar credenciais",
		})
	}

	return c.JSON(fiber.Map{
		"access_token": accessToken,
		"expires_in":   int(h.jwtAuth.AccessTokenExpiry.Seconds()),
	})
}

// Logout clears the refresh token cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie("refresh_token")
	return c.JSON(fiber.Map{
		"message": "Sessão encerrada",
	})
}
