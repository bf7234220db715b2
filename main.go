package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/config"
	"github.com/lizet96/mediconnect-backend/database"
	"github.com/lizet96/mediconnect-backend/handlers"
	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/metricas"
	"github.com/lizet96/mediconnect-backend/middleware"
	"github.com/lizet96/mediconnect-backend/notificaciones"
	"github.com/lizet96/mediconnect-backend/repository"
	"github.com/lizet96/mediconnect-backend/routes"
	"github.com/lizet96/mediconnect-backend/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").WithError(err).Fatal("No se pudo cargar la configuración")
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Conectar a la base de datos
	pool, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("No se pudo conectar a la base de datos")
	}
	defer pool.Close()

	if err := database.Migrar(ctx, pool); err != nil {
		log.WithError(err).Fatal("No se pudo aplicar el esquema")
	}

	registro := prometheus.NewRegistry()
	registro.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metricas.Nuevas(registro)
	metricas.RegistrarPool(registro, func() int32 { return pool.Stat().AcquiredConns() })

	usuarioRepo := repository.NewUsuarioRepo(pool)
	verificacionRepo := repository.NewVerificacionRepo(pool)
	pacienteRepo := repository.NewPacienteRepo(pool)
	citaRepo := repository.NewCitaRepo(pool)
	recetaRepo := repository.NewRecetaRepo(pool)
	pagoRepo := repository.NewPagoRepo(pool)
	familiarRepo := repository.NewFamiliarRepo(pool)
	logRepo := repository.NewLogRepo(pool)

	mailer := notificaciones.Nuevo(cfg.Email, log)
	jwt := middleware.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	familiares := services.NewFamiliarService(familiarRepo, usuarioRepo, log)
	h := handlers.New(handlers.Servicios{
		Auth:       services.NewAuthService(usuarioRepo, verificacionRepo, jwt, mailer, cfg.VerificationTTL, m, log),
		Perfil:     services.NewPerfilService(usuarioRepo, pacienteRepo, familiares, log),
		Citas:      services.NewCitaService(citaRepo, usuarioRepo, familiares, mailer, cfg.VideoDomain, m, log),
		Recetas:    services.NewRecetaService(recetaRepo, citaRepo, familiares, log),
		Pagos:      services.NewPagoService(pagoRepo, usuarioRepo, citaRepo, mailer, m, log),
		Familiares: familiares,
	}, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				log.WithComponent("http").WithError(err).WithField("path", c.Path()).Error("Error no controlado")
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
		AppName: "MediConnect API v1.0.0",
	})

	routes.SetupRoutes(app, routes.Dependencias{
		Handler:       h,
		JWT:           jwt,
		RequestLogger: middleware.NewRequestLogger(logRepo, log, cfg.Environment),
		Metricas:      m,
		Registro:      registro,
		CORSOrigins:   cfg.CORSOrigins,
		Cuentas:       usuarioRepo,
		Salud:         pool.Ping,
	})

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Ruta no encontrada",
			"message": "La ruta solicitada no existe en este servidor",
			"path":    c.Path(),
			"method":  c.Method(),
		})
	})

	go func() {
		<-ctx.Done()
		log.Info("Apagando servidor")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error al apagar el servidor")
		}
	}()

	log.WithField("port", cfg.Port).WithField("environment", cfg.Environment).Info("Servidor MediConnect iniciado")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("El servidor terminó con error")
	}
}
