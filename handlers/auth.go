package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/models"
)

// Registrar crea la verificación pendiente y envía el código por correo
func (h *Handler) Registrar(c *fiber.Ctx) error {
	var req models.RegistroRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	res, err := h.Auth.Registrar(c.UserContext(), req)
	if err != nil {
		return h.responderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"verificacion": res,
		"mensaje":      "Te enviamos un código de verificación a tu correo",
	})
}

func (h *Handler) VerificarEmail(c *fiber.Ctx) error {
	var req models.VerificarEmailRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	usuario, err := h.Auth.VerificarEmail(c.UserContext(), req)
	if err != nil {
		return h.responderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"usuario": usuario,
		"mensaje": "Correo verificado, ya puedes iniciar sesión",
	})
}

func (h *Handler) ReenviarCodigo(c *fiber.Ctx) error {
	var req models.ReenviarCodigoRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	res, err := h.Auth.ReenviarCodigo(c.UserContext(), req)
	if err != nil {
		return h.responderError(c, err)
	}

	return c.JSON(fiber.Map{
		"verificacion": res,
		"mensaje":      "Te enviamos un código nuevo",
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}

	res, err := h.Auth.Login(c.UserContext(), req)
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(res)
}

// ConfigurarMFA genera un secreto TOTP; queda inactivo hasta ActivarMFA
func (h *Handler) ConfigurarMFA(c *fiber.Ctx) error {
	res, err := h.Auth.ConfigurarMFA(c.UserContext(), actor(c))
	if err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) ActivarMFA(c *fiber.Ctx) error {
	var req models.MFACodeRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}
	if err := h.Auth.ActivarMFA(c.UserContext(), actor(c), req.Code); err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{"mensaje": "MFA activado"})
}

func (h *Handler) DesactivarMFA(c *fiber.Ctx) error {
	var req models.MFACodeRequest
	if err := h.bind(c, &req); err != nil {
		return h.responderError(c, err)
	}
	if err := h.Auth.DesactivarMFA(c.UserContext(), actor(c), req.Code); err != nil {
		return h.responderError(c, err)
	}
	return c.JSON(fiber.Map{"mensaje": "MFA desactivado"})
}
