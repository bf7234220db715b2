package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appProtegida(j *JWT, roles ...models.Rol) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{j.Middleware()}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		id, rol, _ := Identidad(c)
		return c.JSON(fiber.Map{"id": id, "rol": rol})
	})
	app.Get("/privado", handlers...)
	return app
}

func TestJWT_GenerarYValidar(t *testing.T) {
	j := NewJWT("secreto", time.Hour)

	token, err := j.Generar(42, models.RolDoctor)
	require.NoError(t, err)

	claims, err := j.Validar(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UsuarioID)
	assert.Equal(t, "doctor", claims.Rol)
	assert.Equal(t, time.Hour, j.TTL())
}

func TestJWT_Rechazos(t *testing.T) {
	j := NewJWT("secreto", time.Hour)
	token, err := j.Generar(42, models.RolPaciente)
	require.NoError(t, err)

	otra := NewJWT("otro-secreto", time.Hour)
	_, err = otra.Validar(token)
	assert.Error(t, err, "firma con otro secreto")

	vencido := NewJWT("secreto", time.Hour)
	vencido.ahora = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	viejo, err := vencido.Generar(42, models.RolPaciente)
	require.NoError(t, err)
	_, err = j.Validar(viejo)
	assert.Error(t, err, "token expirado")

	sinFirma := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UsuarioID: 42, Rol: "doctor"})
	s, err := sinFirma.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = j.Validar(s)
	assert.Error(t, err, "algoritmo none")

	rolDesconocido := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UsuarioID: 42, Rol: "admin"})
	s, err = rolDesconocido.SignedString([]byte("secreto"))
	require.NoError(t, err)
	_, err = j.Validar(s)
	assert.Error(t, err, "rol desconocido")
}

func TestJWTMiddleware(t *testing.T) {
	j := NewJWT("secreto", time.Hour)
	app := appProtegida(j)
	valido, err := j.Generar(7, models.RolPaciente)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"sin header", "", fiber.StatusUnauthorized},
		{"sin Bearer", valido, fiber.StatusUnauthorized},
		{"token basura", "Bearer abc.def.ghi", fiber.StatusUnauthorized},
		{"token válido", "Bearer " + valido, fiber.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/privado", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	j := NewJWT("secreto", time.Hour)
	app := appProtegida(j, models.RolDoctor)

	doctor, _ := j.Generar(1, models.RolDoctor)
	paciente, _ := j.Generar(2, models.RolPaciente)

	req := httptest.NewRequest("GET", "/privado", nil)
	req.Header.Set("Authorization", "Bearer "+doctor)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/privado", nil)
	req.Header.Set("Authorization", "Bearer "+paciente)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSecurityHeadersYBodySize(t *testing.T) {
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Post("/", BodySizeLimit(10), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest("POST", "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))

	req = httptest.NewRequest("POST", "/", stringsReader(`{"nombre":"demasiado largo"}`))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestAuthRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", CreateRateLimiter(RateLimitConfig{Max: 2, Expiration: time.Minute, Message: "espera"}),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	var ultimo int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		ultimo = resp.StatusCode
	}
	assert.Equal(t, fiber.StatusTooManyRequests, ultimo)
}

type cuentasFalsas map[int64]bool

func (f cuentasFalsas) EstaActivo(_ context.Context, id int64) (bool, error) {
	if id == 99 {
		return false, errors.New("sin conexión")
	}
	return f[id], nil
}

func TestRequireCuentaActiva(t *testing.T) {
	j := NewJWT("secreto", time.Hour)
	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }
	protegido := []fiber.Handler{j.Middleware(), RequireCuentaActiva(cuentasFalsas{1: true, 2: false}), ok}
	app.Get("/recurso", protegido...)
	app.Post("/recurso", protegido...)

	activo, _ := j.Generar(1, models.RolPaciente)
	dadoDeBaja, _ := j.Generar(2, models.RolPaciente)
	falla, _ := j.Generar(99, models.RolDoctor)

	cases := []struct {
		name   string
		method string
		token  string
		status int
	}{
		{"cuenta activa escribe", "POST", activo, fiber.StatusNoContent},
		{"cuenta dada de baja no escribe", "POST", dadoDeBaja, fiber.StatusForbidden},
		{"cuenta dada de baja aún lee", "GET", dadoDeBaja, fiber.StatusNoContent},
		{"error del store", "POST", falla, fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/recurso", nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
