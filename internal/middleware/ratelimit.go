package middleware

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	// Global limits (per IP)
	GlobalAPIMax        int
	GlobalAPIExpiration time.Duration

	// AI generation limits (per IP). Each request costs upstream quota.
	GenerateMax        int
	GenerateExpiration time.Duration

	// Grounded supplier search limits (per IP)
	SupplierSearchMax        int
	SupplierSearchExpiration time.Duration
}

// DefaultRateLimitConfig returns production-safe defaults
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		// Global: 200/min = ~3.3 req/sec - very generous for normal use
		GlobalAPIMax:        200,
		GlobalAPIExpiration: 1 * time.Minute,

		// Generation: 20/min - each call hits the image/text models
		GenerateMax:        20,
		GenerateExpiration: 1 * time.Minute,

		// Supplier search: 30/min - cached answers do not count upstream
		SupplierSearchMax:        30,
		SupplierSearchExpiration: 1 * time.Minute,
	}
}

// LoadRateLimitConfig loads config from environment variables with defaults
func LoadRateLimitConfig() *RateLimitConfig {
	config := DefaultRateLimitConfig()

	if v := os.Getenv("RATE_LIMIT_GLOBAL_API"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.GlobalAPIMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_GENERATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.GenerateMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_SUPPLIER_SEARCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.SupplierSearchMax = n
		}
	}

	// Development mode: more lenient limits
	if os.Getenv("ENVIRONMENT") == "development" {
		config.GlobalAPIMax = 1000
		config.GenerateMax = 200
		config.SupplierSearchMax = 200
		log.Println("⚠️  [RATE-LIMIT] Development mode: using relaxed rate limits")
	}

	return config
}

// GlobalAPIRateLimiter creates a rate limiter for all API requests
func GlobalAPIRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.GlobalAPIMax,
		Expiration: config.GlobalAPIExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "global:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("🚫 [RATE-LIMIT] Global limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Muitas requisições. Aguarde um momento.",
				"retry_after": int(config.GlobalAPIExpiration.Seconds()),
			})
		},
		SkipFailedRequests:     false,
		SkipSuccessfulRequests: false,
	})
}

// GenerateRateLimiter throttles the AI generation endpoints
func GenerateRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.GenerateMax,
		Expiration: config.GenerateExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "generate:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("⚠️  [RATE-LIMIT] Generation limit reached for IP: %s on %s", c.IP(), c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Limite de gerações atingido. Aguarde antes de gerar novamente.",
				"retry_after": int(config.GenerateExpiration.Seconds()),
			})
		},
	})
}

// SupplierSearchRateLimiter throttles the grounded supplier search
func SupplierSearchRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.SupplierSearchMax,
		Expiration: config.SupplierSearchExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "supplier:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("⚠️  [RATE-LIMIT] Supplier search limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Limite de buscas atingido. Aguarde um momento.",
				"retry_after": int(config.SupplierSearchExpiration.Seconds()),
			})
		},
	})
}
