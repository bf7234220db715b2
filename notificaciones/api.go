package notificaciones

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lizet96/mediconnect-backend/config"
	"github.com/lizet96/mediconnect-backend/logger"
)

// APIMailer envía mediante una API transaccional compatible con Brevo
type APIMailer struct {
	baseURL  string
	apiKey   string
	from     string
	fromName string
	client   *http.Client
	log      *logger.Logger
}

type contacto struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type apiCorreoRequest struct {
	Sender      contacto   `json:"sender"`
	To          []contacto `json:"to"`
	Subject     string     `json:"subject"`
	HTMLContent string     `json:"htmlContent"`
}

type apiCorreoResponse struct {
	MessageID string `json:"messageId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func NewAPIMailer(cfg config.EmailConfig, log *logger.Logger) *APIMailer {
	return &APIMailer{
		baseURL:  cfg.APIURL,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		fromName: cfg.FromName,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      log,
	}
}

func (m *APIMailer) Enviar(ctx context.Context, para, asunto, html string) bool {
	entry := m.log.WithComponent("mailer").WithField("para", para).WithField("asunto", asunto)

	messageID, err := m.enviar(ctx, apiCorreoRequest{
		Sender:      contacto{Name: m.fromName, Email: m.from},
		To:          []contacto{{Email: para}},
		Subject:     asunto,
		HTMLContent: html,
	})
	if err != nil {
		entry.WithError(err).Error("Error enviando correo por API")
		return false
	}

	entry.WithField("message_id", messageID).Debug("Correo enviado por API")
	return true
}

func (m *APIMailer) enviar(ctx context.Context, payload apiCorreoRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error al serializar el correo: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error al crear la petición: %w", err)
	}
	req.Header.Set("api-key", m.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error de red: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("error al leer la respuesta: %w", err)
	}

	var out apiCorreoResponse
	_ = json.Unmarshal(respBody, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("el proveedor respondió %d: %s %s", resp.StatusCode, out.Code, out.Message)
	}
	return out.MessageID, nil
}
