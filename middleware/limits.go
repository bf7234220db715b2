package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig configuración para rate limiting
type RateLimitConfig struct {
	Max        int           // Número máximo de requests
	Expiration time.Duration // Ventana de tiempo
	Message    string
}

// DefaultRateLimit configuración por defecto para la API autenticada
var DefaultRateLimit = RateLimitConfig{
	Max:        300,
	Expiration: 15 * time.Minute,
	Message:    "Demasiadas peticiones, intenta más tarde",
}

// AuthRateLimit registro, verificación, reenvío de código y login
var AuthRateLimit = RateLimitConfig{
	Max:        20,
	Expiration: 15 * time.Minute,
	Message:    "Demasiados intentos, intenta más tarde",
}

// CreateRateLimiter crea un middleware de rate limiting por IP
func CreateRateLimiter(config RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.Max,
		Expiration: config.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Límite de peticiones excedido",
				"message":     config.Message,
				"retry_after": int(config.Expiration.Seconds()),
			})
		},
	})
}

func DefaultRateLimiter() fiber.Handler {
	return CreateRateLimiter(DefaultRateLimit)
}

func AuthRateLimiter() fiber.Handler {
	return CreateRateLimiter(AuthRateLimit)
}

// BodySizeLimit rechaza cuerpos mayores a maxSize bytes
func BodySizeLimit(maxSize int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(c.Body()) > maxSize {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error":    "El tamaño de la petición excede el límite permitido",
				"max_size": maxSize,
			})
		}
		return c.Next()
	}
}

// RequestTimeout acota el contexto que reciben servicios y repositorios
func RequestTimeout(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// SecurityHeaders agrega headers de seguridad a todas las respuestas
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		return c.Next()
	}
}
