package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/models"
)

// ObtenerPerfil datos del usuario autenticado
func (h *Handler) ObtenerPerfil(c *fiber.Ctx) error {
	usuario, err := h.Perfil.Obtener(c.UserContext(), actor(c))
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{"usuario": usuario})
}

func (h *Handler) ActualizarPerfil(c *fiber.Ctx) error {
	var req models.ActualizarPerfilRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	usuario, err := h.Perfil.Actualizar(c.UserContext(), actor(c), req)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"usuario": usuario,
		"mensaje": "Perfil actualizado exitosamente",
	})
}

// EliminarPerfil desactiva la cuenta; el historial clínico se conserva
func (h *Handler) EliminarPerfil(c *fiber.Ctx) error {
	if err := h.Perfil.Eliminar(c.UserContext(), actor(c)); err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{"mensaje": "Cuenta desactivada exitosamente"})
}

// ListarDoctores directorio de doctores activos, filtrable por ?especialidad=
func (h *Handler) ListarDoctores(c *fiber.Ctx) error {
	doctores, err := h.Perfil.ListarDoctores(c.UserContext(), strings.TrimSpace(c.Query("especialidad")))
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"doctores": doctores,
		"total":    len(doctores),
	})
}
