package middleware

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"marcenapp/pkg/auth"
)

// LocalAuthMiddleware verifies the workshop JWT on protected routes.
func LocalAuthMiddleware(jwtAuth *auth.LocalJWTAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// A nil jwtAuth means no password was configured. The workshop runs
		// open in development; production refuses to start that way.
		environment := os.Getenv("ENVIRONMENT")

		if jwtAuth == nil {
			if environment == "production" {
				log.Fatal("❌ CRITICAL SECURITY ERROR: JWT auth not configured in production environment. Authentication is required.")
			}
			c.Locals("workshop", "dev-workshop")
			return c.Next()
		}

		token, err := auth.ExtractToken(c.Get("Authorization"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Sessão necessária. Entre com a senha da oficina.",
			})
		}

		workshop, err := jwtAuth.VerifyAccessToken(token)
		if err != nil {
			log.Printf("❌ Auth failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Sessão expirada. Entre novamente.",
			})
		}

		c.Locals("workshop", workshop)
		return c.Next()
	}
}
