package services

import (
	"context"

	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/metricas"
	"github.com/lizet96/mediconnect-backend/notificaciones"
)

// notificador envía sin reintentos; un fallo se registra y se cuenta pero
// nunca revierte la operación que lo originó
type notificador struct {
	mailer   notificaciones.Mailer
	metricas *metricas.Metricas
	log      *logger.Logger
}

func (n notificador) enviar(ctx context.Context, tipo string, msg notificaciones.Mensaje, err error) bool {
	entry := n.log.WithComponent("notificaciones").WithField("tipo", tipo)
	if err != nil {
		entry.WithError(err).Error("No se pudo construir el correo")
		n.metricas.Notificacion(tipo, false)
		return false
	}

	enviado := n.mailer.Enviar(ctx, msg.Para, msg.Asunto, msg.HTML)
	n.metricas.Notificacion(tipo, enviado)
	if !enviado {
		entry.WithField("para", msg.Para).Warn("Entrega de correo no confirmada")
	}
	return enviado
}
