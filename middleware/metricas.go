package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/metricas"
)

// Metricas cuenta peticiones por método, ruta registrada y status
func Metricas(m *metricas.Metricas) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		// la plantilla de ruta evita una serie por cada id
		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" {
			route = "no_encontrada"
		}
		m.HTTPRequest(strings.Clone(c.Method()), strings.Clone(route), status, time.Since(start))
		return err
	}
}
