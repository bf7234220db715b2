package notificaciones

import (
	"context"
	"time"

	"github.com/lizet96/mediconnect-backend/config"
	"github.com/lizet96/mediconnect-backend/logger"
	"gopkg.in/gomail.v2"
)

// dialer lo implementa *gomail.Dialer
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer envía a través de un relay SMTP
type SMTPMailer struct {
	dialer   dialer
	from     string
	fromName string
	timeout  time.Duration
	log      *logger.Logger
}

func NewSMTPMailer(cfg config.EmailConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:     cfg.From,
		fromName: cfg.FromName,
		timeout:  cfg.Timeout,
		log:      log,
	}
}

func (m *SMTPMailer) Enviar(ctx context.Context, para, asunto, html string) bool {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", para)
	msg.SetHeader("Subject", asunto)
	msg.SetBody("text/html", html)

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	// gomail no acepta contexto; se espera el envío hasta el timeout
	resultado := make(chan error, 1)
	go func() { resultado <- m.dialer.DialAndSend(msg) }()

	entry := m.log.WithComponent("mailer").WithField("para", para).WithField("asunto", asunto)
	select {
	case err := <-resultado:
		if err != nil {
			entry.WithError(err).Error("Error enviando correo por SMTP")
			return false
		}
		entry.Debug("Correo enviado por SMTP")
		return true
	case <-ctx.Done():
		entry.WithError(ctx.Err()).Error("Tiempo agotado enviando correo por SMTP")
		return false
	}
}
