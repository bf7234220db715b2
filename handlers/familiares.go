package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/models"
)

// AgregarFamiliar el paciente concede permisos a otro usuario registrado
func (h *Handler) AgregarFamiliar(c *fiber.Ctx) error {
	var req models.FamiliarRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	familiar, err := h.Familiares.Agregar(c.UserContext(), actor(c), req)
	if err != nil {
		return h.responderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"familiar": familiar,
		"mensaje":  "Familiar agregado exitosamente",
	})
}

func (h *Handler) ListarFamiliares(c *fiber.Ctx) error {
	familiares, err := h.Familiares.Listar(c.UserContext(), actor(c))
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"familiares": familiares,
		"total":      len(familiares),
	})
}

// ListarPacientesACargo pacientes que delegaron permisos en el usuario
func (h *Handler) ListarPacientesACargo(c *fiber.Ctx) error {
	pacientes, err := h.Familiares.ListarPacientes(c.UserContext(), actor(c))
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"pacientes": pacientes,
		"total":     len(pacientes),
	})
}

func (h *Handler) ActualizarFamiliar(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return idInvalido(c)
	}

	var req models.PermisosFamiliarRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	familiar, err := h.Familiares.ActualizarPermisos(c.UserContext(), actor(c), id, req)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"familiar": familiar,
		"mensaje":  "Permisos actualizados",
	})
}

func (h *Handler) EliminarFamiliar(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return idInvalido(c)
	}

	if err := h.Familiares.Eliminar(c.UserContext(), actor(c), id); err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{"mensaje": "Familiar eliminado exitosamente"})
}
