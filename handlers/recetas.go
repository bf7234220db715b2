package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/models"
)

// CrearReceta crea una receta para una cita completada
func (h *Handler) CrearReceta(c *fiber.Ctx) error {
	var req models.RecetaRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	receta, err := h.Recetas.Crear(c.UserContext(), actor(c), req)
	if err != nil {
		return h.responderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"receta":  receta,
		"mensaje": "Receta creada exitosamente",
	})
}

func (h *Handler) ObtenerReceta(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return idInvalido(c)
	}

	receta, err := h.Recetas.Obtener(c.UserContext(), actor(c), id)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{"receta": receta})
}

func (h *Handler) ListarRecetasPorCita(c *fiber.Ctx) error {
	citaID, ok := parseID(c, "cita_id")
	if !ok {
		return idInvalido(c)
	}

	recetas, err := h.Recetas.ListarPorCita(c.UserContext(), actor(c), citaID)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"recetas": recetas,
		"total":   len(recetas),
	})
}

func (h *Handler) ActualizarReceta(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return idInvalido(c)
	}

	var req models.RecetaRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	receta, err := h.Recetas.Actualizar(c.UserContext(), actor(c), id, req)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"receta":  receta,
		"mensaje": "Receta actualizada exitosamente",
	})
}

// AutenticarReceta firma la receta; después ya no se puede editar
func (h *Handler) AutenticarReceta(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return idInvalido(c)
	}

	var req models.AutenticarRecetaRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	receta, err := h.Recetas.Autenticar(c.UserContext(), actor(c), id, req.FirmaDigital)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"receta":  receta,
		"mensaje": "Receta autenticada",
	})
}
