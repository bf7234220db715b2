package middleware

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/models"
)

// LogStore destino de la bitácora de peticiones
type LogStore interface {
	Guardar(ctx context.Context, l *models.Log) error
}

const (
	maxBody       = 1000
	timeoutGuardo = 5 * time.Second
)

var camposSensibles = []string{"password", "mfa_code", "code", "codigo", "secret", "token", "firma_digital"}

// RequestLogger captura cada petición y la guarda en la tabla logs sin
// bloquear la respuesta
type RequestLogger struct {
	store       LogStore
	log         *logger.Logger
	environment string
	pid         int
	guardar     func(*models.Log)
}

func NewRequestLogger(store LogStore, log *logger.Logger, environment string) *RequestLogger {
	rl := &RequestLogger{store: store, log: log, environment: environment, pid: os.Getpid()}
	rl.guardar = func(entry *models.Log) { go rl.persistir(entry) }
	return rl
}

func (rl *RequestLogger) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		responseTime := int(time.Since(start).Milliseconds())
		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		rl.guardar(rl.crearEntrada(c, status, responseTime))

		return err
	}
}

// crearEntrada copia lo necesario del contexto; fasthttp recicla c al terminar
func (rl *RequestLogger) crearEntrada(c *fiber.Ctx, status, responseTime int) *models.Log {
	entry := &models.Log{
		Method:       strings.Clone(c.Method()),
		Path:         strings.Clone(c.Path()),
		StatusCode:   status,
		ResponseTime: &responseTime,
		IP:           ipCliente(c),
		LogLevel:     determineLogLevel(status),
		Environment:  rl.environment,
		PID:          &rl.pid,
	}

	if id, rol, ok := Identidad(c); ok {
		r := string(rol)
		entry.UserID = &id
		entry.Role = &r
	}
	if ua := c.Get("User-Agent"); ua != "" {
		ua = strings.Clone(ua)
		entry.UserAgent = &ua
	}
	if url := c.OriginalURL(); url != "" {
		url = strings.Clone(url)
		entry.URL = &url
	}

	switch c.Method() {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
		if body := string(c.Body()); body != "" {
			body = filterSensitiveData(body)
			entry.Body = &body
		}
	}
	if params := c.AllParams(); len(params) > 0 {
		if b, err := json.Marshal(params); err == nil {
			s := string(b)
			entry.Params = &s
		}
	}
	if q := string(c.Request().URI().QueryString()); q != "" {
		entry.Query = &q
	}
	return entry
}

func (rl *RequestLogger) persistir(entry *models.Log) {
	ctx, cancel := context.WithTimeout(context.Background(), timeoutGuardo)
	defer cancel()

	if err := rl.store.Guardar(ctx, entry); err != nil {
		rl.log.WithComponent("request_log").WithError(err).
			WithField("path", entry.Path).Error("Error guardando log en base de datos")
	}
}

// ipCliente prioriza X-Real-IP y luego el primer salto de X-Forwarded-For
func ipCliente(c *fiber.Ctx) string {
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return strings.Clone(realIP)
	}
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		return strings.Clone(strings.TrimSpace(strings.Split(forwarded, ",")[0]))
	}
	return c.IP()
}

// filterSensitiveData oculta credenciales del body y lo trunca
func filterSensitiveData(body string) string {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return truncar(body)
	}

	for _, field := range camposSensibles {
		if _, exists := data[field]; exists {
			data[field] = "[FILTERED]"
		}
	}

	filtered, err := json.Marshal(data)
	if err != nil {
		return "[FILTERED]"
	}
	return truncar(string(filtered))
}

func truncar(s string) string {
	if len(s) > maxBody {
		n := maxBody
		// no partir un carácter multibyte
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		return s[:n] + "...[truncated]"
	}
	return s
}

// determineLogLevel determina el nivel de log basado en el status code
func determineLogLevel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return models.LogLevelSuccess
	case statusCode >= 400 && statusCode < 500:
		return models.LogLevelWarning
	case statusCode >= 500:
		return models.LogLevelError
	default:
		return models.LogLevelInfo
	}
}
