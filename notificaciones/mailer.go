package notificaciones

import (
	"context"

	"github.com/lizet96/mediconnect-backend/config"
	"github.com/lizet96/mediconnect-backend/logger"
)

// Mailer envía correos HTML. Devuelve false cuando la entrega no pudo
// confirmarse; los errores se registran y nunca se propagan al llamador.
type Mailer interface {
	Enviar(ctx context.Context, para, asunto, html string) bool
}

// Nuevo selecciona la implementación según EMAIL_PROVIDER
func Nuevo(cfg config.EmailConfig, log *logger.Logger) Mailer {
	switch cfg.Provider {
	case config.ProveedorSMTP:
		log.WithComponent("mailer").WithField("host", cfg.SMTPHost).Info("Correo vía SMTP")
		return NewSMTPMailer(cfg, log)
	case config.ProveedorAPI:
		log.WithComponent("mailer").WithField("url", cfg.APIURL).Info("Correo vía API transaccional")
		return NewAPIMailer(cfg, log)
	default:
		log.WithComponent("mailer").Warn("Sin proveedor de correo, los mensajes solo se registran en el log")
		return NewLogMailer(log)
	}
}

// LogMailer registra los correos sin enviarlos. Útil en desarrollo.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Enviar(_ context.Context, para, asunto, html string) bool {
	m.log.WithComponent("mailer").WithFields(map[string]interface{}{
		"para":   para,
		"asunto": asunto,
		"bytes":  len(html),
	}).Info("Correo registrado (sin envío)")
	return true
}
