package handlers

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/middleware"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/lizet96/mediconnect-backend/services"
)

type AuthServicio interface {
	Registrar(ctx context.Context, req models.RegistroRequest) (*models.RegistroResponse, error)
	VerificarEmail(ctx context.Context, req models.VerificarEmailRequest) (*models.Usuario, error)
	ReenviarCodigo(ctx context.Context, req models.ReenviarCodigoRequest) (*models.RegistroResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	ConfigurarMFA(ctx context.Context, actor services.Actor) (*models.MFASetupResponse, error)
	ActivarMFA(ctx context.Context, actor services.Actor, code string) error
	DesactivarMFA(ctx context.Context, actor services.Actor, code string) error
}

type PerfilServicio interface {
	Obtener(ctx context.Context, actor services.Actor) (*models.Usuario, error)
	Actualizar(ctx context.Context, actor services.Actor, req models.ActualizarPerfilRequest) (*models.Usuario, error)
	Eliminar(ctx context.Context, actor services.Actor) error
	ListarDoctores(ctx context.Context, especialidad string) ([]models.Usuario, error)
	ListarPacientes(ctx context.Context, actor services.Actor) ([]models.PacienteDetalle, error)
	ObtenerPaciente(ctx context.Context, actor services.Actor, usuarioID int64) (*models.PacienteDetalle, error)
	ObtenerExpediente(ctx context.Context, actor services.Actor) (*models.PacienteDetalle, error)
	ActualizarExpediente(ctx context.Context, actor services.Actor, req models.ExpedienteRequest) (*models.PacienteDetalle, error)
}

type CitaServicio interface {
	Agendar(ctx context.Context, actor services.Actor, req models.CitaRequest) (*models.Cita, error)
	Listar(ctx context.Context, actor services.Actor) ([]models.CitaDetalle, error)
	ListarPorPaciente(ctx context.Context, actor services.Actor, pacienteID int64) ([]models.CitaDetalle, error)
	Obtener(ctx context.Context, actor services.Actor, id int64) (*models.CitaDetalle, error)
	CambiarEstado(ctx context.Context, actor services.Actor, id int64, estado string) (*models.TransicionCita, error)
}

type RecetaServicio interface {
	Crear(ctx context.Context, actor services.Actor, req models.RecetaRequest) (*models.Receta, error)
	Obtener(ctx context.Context, actor services.Actor, id int64) (*models.Receta, error)
	ListarPorCita(ctx context.Context, actor services.Actor, citaID int64) ([]models.Receta, error)
	Actualizar(ctx context.Context, actor services.Actor, id int64, req models.RecetaRequest) (*models.Receta, error)
	Autenticar(ctx context.Context, actor services.Actor, id int64, firma string) (*models.Receta, error)
}

type PagoServicio interface {
	Crear(ctx context.Context, actor services.Actor, req models.PagoRequest) (*models.Pago, error)
	Listar(ctx context.Context, actor services.Actor) ([]models.Pago, error)
	Obtener(ctx context.Context, actor services.Actor, id int64) (*models.Pago, error)
	CambiarEstado(ctx context.Context, actor services.Actor, id int64, estado string) (*models.Pago, error)
}

type FamiliarServicio interface {
	Agregar(ctx context.Context, actor services.Actor, req models.FamiliarRequest) (*models.Familiar, error)
	Listar(ctx context.Context, actor services.Actor) ([]models.FamiliarDetalle, error)
	ListarPacientes(ctx context.Context, actor services.Actor) ([]models.FamiliarDetalle, error)
	ActualizarPermisos(ctx context.Context, actor services.Actor, id int64, req models.PermisosFamiliarRequest) (*models.Familiar, error)
	Eliminar(ctx context.Context, actor services.Actor, id int64) error
}

// Servicios dependencias de los handlers
type Servicios struct {
	Auth       AuthServicio
	Perfil     PerfilServicio
	Citas      CitaServicio
	Recetas    RecetaServicio
	Pagos      PagoServicio
	Familiares FamiliarServicio
}

// Handler traduce HTTP a llamadas de servicio
type Handler struct {
	Servicios
	validate *validator.Validate
	log      *logger.Logger
}

func New(s Servicios, log *logger.Logger) *Handler {
	v := validator.New()
	// los mensajes de validación usan el nombre json del campo
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		nombre := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if nombre == "-" {
			return ""
		}
		return nombre
	})
	return &Handler{Servicios: s, validate: v, log: log}
}

// actor identidad del usuario autenticado; las rutas protegidas siempre la tienen
func actor(c *fiber.Ctx) services.Actor {
	id, rol, _ := middleware.Identidad(c)
	return services.Actor{ID: id, Rol: rol}
}

// bind parsea el body JSON y aplica las reglas validate
func (h *Handler) bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return &services.Error{Tipo: services.ErrValidacion, Mensaje: "Datos inválidos", Causa: err}
	}
	if err := h.validate.Struct(dst); err != nil {
		return &services.Error{Tipo: services.ErrValidacion, Mensaje: mensajeValidacion(err), Causa: err}
	}
	return nil
}

func mensajeValidacion(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Datos inválidos"
	}
	campos := make([]string, 0, len(errs))
	for _, fe := range errs {
		campos = append(campos, fe.Field()+" ("+fe.Tag()+")")
	}
	return "Campos inválidos: " + strings.Join(campos, ", ")
}

// parseID lee un parámetro de ruta entero positivo
func parseID(c *fiber.Ctx, nombre string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(nombre), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func idInvalido(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "ID inválido",
	})
}

var statusPorTipo = map[services.TipoError]int{
	services.ErrValidacion:    fiber.StatusBadRequest,
	services.ErrNoAutenticado: fiber.StatusUnauthorized,
	services.ErrProhibido:     fiber.StatusForbidden,
	services.ErrNoEncontrado:  fiber.StatusNotFound,
	services.ErrConflicto:     fiber.StatusConflict,
}

// responderError mapea el tipo de error del servicio a un status HTTP
func (h *Handler) responderError(c *fiber.Ctx, err error) error {
	var e *services.Error
	if errors.As(err, &e) {
		if status, ok := statusPorTipo[e.Tipo]; ok {
			return c.Status(status).JSON(fiber.Map{"error": e.Mensaje})
		}
	}

	h.log.WithComponent("handlers").WithError(err).
		WithField("path", c.Path()).WithField("method", c.Method()).Error("Error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Error interno del servidor",
	})
}
