package routes

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/handlers"
	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/metricas"
	"github.com/lizet96/mediconnect-backend/middleware"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeNulo struct{}

func (storeNulo) Guardar(ctx context.Context, l *models.Log) error { return nil }

type cuentasInactivas struct{}

func (cuentasInactivas) EstaActivo(ctx context.Context, id int64) (bool, error) { return false, nil }

func nuevaApp(salud func(context.Context) error) (*fiber.App, *middleware.JWT) {
	return nuevaAppCon(salud, nil)
}

func nuevaAppCon(salud func(context.Context) error, cuentas middleware.CuentaStore) (*fiber.App, *middleware.JWT) {
	log := logger.Discard()
	jwt := middleware.NewJWT("secreto", time.Hour)
	reg := prometheus.NewRegistry()

	app := fiber.New()
	SetupRoutes(app, Dependencias{
		Handler:       handlers.New(handlers.Servicios{}, log),
		JWT:           jwt,
		RequestLogger: middleware.NewRequestLogger(storeNulo{}, log, "testing"),
		Metricas:      metricas.Nuevas(reg),
		Registro:      reg,
		CORSOrigins:   "*",
		Salud:         salud,
		Cuentas:       cuentas,
	})
	return app, jwt
}

func TestHealth(t *testing.T) {
	app, _ := nuevaApp(func(context.Context) error { return nil })
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	app, _ = nuevaApp(func(context.Context) error { return errors.New("sin conexión") })
	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsExpone(t *testing.T) {
	app, _ := nuevaApp(nil)

	_, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `mediconnect_http_requests_total{method="GET",route="/health",status_code="200"} 1`))
}

func TestRutasProtegidas(t *testing.T) {
	app, jwt := nuevaApp(nil)
	paciente, _ := jwt.Generar(10, models.RolPaciente)
	doctor, _ := jwt.Generar(20, models.RolDoctor)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"citas sin token", "GET", "/api/citas", "", fiber.StatusUnauthorized},
		{"mfa sin token", "POST", "/api/auth/mfa/setup", "", fiber.StatusUnauthorized},
		{"paciente no crea recetas", "POST", "/api/recetas", paciente, fiber.StatusForbidden},
		{"paciente no autentica recetas", "POST", "/api/recetas/1/autenticar", paciente, fiber.StatusForbidden},
		{"paciente no lista pacientes", "GET", "/api/pacientes", paciente, fiber.StatusForbidden},
		{"doctor no tiene expediente", "GET", "/api/pacientes/me/expediente", doctor, fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRutasCuentaDadaDeBaja(t *testing.T) {
	app, jwt := nuevaAppCon(nil, cuentasInactivas{})
	paciente, _ := jwt.Generar(10, models.RolPaciente)

	for _, path := range []string{"/api/pagos", "/api/citas", "/api/familiares"} {
		req := httptest.NewRequest("POST", path, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+paciente)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, path)
	}
}
