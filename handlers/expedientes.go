package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/models"
)

// ListarPacientes todos los pacientes activos (solo doctores)
func (h *Handler) ListarPacientes(c *fiber.Ctx) error {
	pacientes, err := h.Perfil.ListarPacientes(c.UserContext(), actor(c))
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"pacientes": pacientes,
		"total":     len(pacientes),
	})
}

// ObtenerPaciente expediente de un paciente por su id de usuario
func (h *Handler) ObtenerPaciente(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return idInvalido(c)
	}

	paciente, err := h.Perfil.ObtenerPaciente(c.UserContext(), actor(c), id)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{"paciente": paciente})
}

func (h *Handler) ObtenerExpediente(c *fiber.Ctx) error {
	expediente, err := h.Perfil.ObtenerExpediente(c.UserContext(), actor(c))
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{"expediente": expediente})
}

func (h *Handler) ActualizarExpediente(c *fiber.Ctx) error {
	var req models.ExpedienteRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	expediente, err := h.Perfil.ActualizarExpediente(c.UserContext(), actor(c), req)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"expediente": expediente,
		"mensaje":    "Expediente actualizado exitosamente",
	})
}
