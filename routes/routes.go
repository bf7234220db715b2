package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lizet96/mediconnect-backend/handlers"
	"github.com/lizet96/mediconnect-backend/metricas"
	"github.com/lizet96/mediconnect-backend/middleware"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxBodyBytes   = 1 << 20
	requestTimeout = 15 * time.Second
)

// Dependencias todo lo que necesita la tabla de rutas
type Dependencias struct {
	Handler       *handlers.Handler
	JWT           *middleware.JWT
	RequestLogger *middleware.RequestLogger
	Metricas      *metricas.Metricas
	Registro      *prometheus.Registry
	CORSOrigins   string
	// Cuentas permite rechazar escrituras de usuarios dados de baja
	Cuentas middleware.CuentaStore
	// Salud verifica la conexión a la base de datos
	Salud func(ctx context.Context) error
}

// SetupRoutes configura todas las rutas de la aplicación
func SetupRoutes(app *fiber.App, d Dependencias) {
	h := d.Handler

	// Middleware global
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(middleware.Metricas(d.Metricas))
	app.Use(middleware.SecurityHeaders())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if d.Salud != nil {
			if err := d.Salud(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status":   "error",
					"database": "sin conexión",
				})
			}
		}
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "MediConnect API",
			"version": "1.0.0",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Registro, promhttp.HandlerOpts{})))

	api := app.Group("/api",
		d.RequestLogger.Handler(),
		middleware.BodySizeLimit(maxBodyBytes),
		middleware.RequestTimeout(requestTimeout),
	)

	// === RUTAS PÚBLICAS ===
	auth := api.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), h.Registrar)
	auth.Post("/verify-email", middleware.AuthRateLimiter(), h.VerificarEmail)
	auth.Post("/resend-code", middleware.AuthRateLimiter(), h.ReenviarCodigo)
	auth.Post("/login", middleware.AuthRateLimiter(), h.Login)

	// === RUTAS PROTEGIDAS ===
	jwt := d.JWT.Middleware()
	activa := middleware.RequireCuentaActiva(d.Cuentas)
	limite := middleware.DefaultRateLimiter()
	soloDoctor := middleware.RequireRole(models.RolDoctor)
	soloPaciente := middleware.RequireRole(models.RolPaciente)

	mfa := auth.Group("/mfa", jwt, activa)
	mfa.Post("/setup", h.ConfigurarMFA)
	mfa.Post("/activate", h.ActivarMFA)
	mfa.Post("/disable", h.DesactivarMFA)

	usuarios := api.Group("/usuarios", jwt, activa, limite)
	usuarios.Get("/perfil", h.ObtenerPerfil)
	usuarios.Put("/perfil", h.ActualizarPerfil)
	usuarios.Delete("/perfil", h.EliminarPerfil)

	api.Get("/doctores", jwt, activa, limite, h.ListarDoctores)

	pacientes := api.Group("/pacientes", jwt, activa, limite)
	pacientes.Get("/me/expediente", soloPaciente, h.ObtenerExpediente)
	pacientes.Put("/me/expediente", soloPaciente, h.ActualizarExpediente)
	pacientes.Get("/", soloDoctor, h.ListarPacientes)
	pacientes.Get("/:id", h.ObtenerPaciente)

	citas := api.Group("/citas", jwt, activa, limite)
	citas.Post("/", h.AgendarCita)
	citas.Get("/", h.ListarCitas)
	citas.Get("/paciente/:paciente_id", h.ListarCitasPorPaciente)
	citas.Get("/:id", h.ObtenerCita)
	citas.Put("/:id/estado", h.CambiarEstadoCita)

	recetas := api.Group("/recetas", jwt, activa, limite)
	recetas.Post("/", soloDoctor, h.CrearReceta)
	recetas.Get("/cita/:cita_id", h.ListarRecetasPorCita)
	recetas.Get("/:id", h.ObtenerReceta)
	recetas.Put("/:id", soloDoctor, h.ActualizarReceta)
	recetas.Post("/:id/autenticar", soloDoctor, h.AutenticarReceta)

	pagos := api.Group("/pagos", jwt, activa, limite)
	pagos.Post("/", h.CrearPago)
	pagos.Get("/", h.ListarPagos)
	pagos.Get("/:id", h.ObtenerPago)
	pagos.Put("/:id/estado", h.CambiarEstadoPago)

	familiares := api.Group("/familiares", jwt, activa, limite)
	familiares.Post("/", h.AgregarFamiliar)
	familiares.Get("/", h.ListarFamiliares)
	familiares.Get("/pacientes", h.ListarPacientesACargo)
	familiares.Put("/:id", h.ActualizarFamiliar)
	familiares.Delete("/:id", h.EliminarFamiliar)
}
