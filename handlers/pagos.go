package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/models"
)

func (h *Handler) CrearPago(c *fiber.Ctx) error {
	var req models.PagoRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	pago, err := h.Pagos.Crear(c.UserContext(), actor(c), req)
	if err != nil {
		return h.responderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"pago":    pago,
		"mensaje": "Pago registrado",
	})
}

// ListarPagos pagos donde el usuario es paciente o doctor
func (h *Handler) ListarPagos(c *fiber.Ctx) error {
	pagos, err := h.Pagos.Listar(c.UserContext(), actor(c))
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"pagos": pagos,
		"total": len(pagos),
	})
}

func (h *Handler) ObtenerPago(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return idInvalido(c)
	}

	pago, err := h.Pagos.Obtener(c.UserContext(), actor(c), id)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{"pago": pago})
}

func (h *Handler) CambiarEstadoPago(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return idInvalido(c)
	}

	var req models.CambiarEstadoPagoRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	pago, err := h.Pagos.CambiarEstado(c.UserContext(), actor(c), id, req.Estado)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"pago":    pago,
		"mensaje": "Estado del pago actualizado",
	})
}
