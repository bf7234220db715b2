package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/models"
)

// AgendarCita crea una cita pendiente para el usuario o para un paciente
// que le delegó el permiso de agendar
func (h *Handler) AgendarCita(c *fiber.Ctx) error {
	var req models.CitaRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	cita, err := h.Citas.Agendar(c.UserContext(), actor(c), req)
	if err != nil {
		return h.responderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"cita":    cita,
		"mensaje": "Cita agendada exitosamente",
	})
}

func (h *Handler) ListarCitas(c *fiber.Ctx) error {
	citas, err := h.Citas.Listar(c.UserContext(), actor(c))
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"citas": citas,
		"total": len(citas),
	})
}

func (h *Handler) ListarCitasPorPaciente(c *fiber.Ctx) error {
	pacienteID, ok := parseID(c, "paciente_id")
	if !ok {
		return idInvalido(c)
	}

	citas, err := h.Citas.ListarPorPaciente(c.UserContext(), actor(c), pacienteID)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"citas": citas,
		"total": len(citas),
	})
}

func (h *Handler) ObtenerCita(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return idInvalido(c)
	}

	cita, err := h.Citas.Obtener(c.UserContext(), actor(c), id)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{"cita": cita})
}

// CambiarEstadoCita la respuesta no expone si el correo se entregó
func (h *Handler) CambiarEstadoCita(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return idInvalido(c)
	}

	var req models.CambiarEstadoCitaRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	res, err := h.Citas.CambiarEstado(c.UserContext(), actor(c), id, req.Estado)
	if err != nil {
		return h.responderError(c, err)
	}

	body := fiber.Map{
		"cita":            res.Cita,
		"estado_anterior": res.EstadoAnterior,
		"mensaje":         "Estado de la cita actualizado",
	}
	if res.Video != nil {
		body["video"] = res.Video
	}
	return c.JSON(body)
}
