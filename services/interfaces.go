package services

import (
	"context"
	"time"

	"github.com/lizet96/mediconnect-backend/models"
)

// Actor usuario autenticado que ejecuta la operación
type Actor struct {
	ID  int64
	Rol models.Rol
}

type UsuarioRepository interface {
	ExisteEmail(ctx context.Context, email string) (bool, error)
	ObtenerPorID(ctx context.Context, id int64) (*models.Usuario, error)
	ObtenerPorEmail(ctx context.Context, email string) (*models.Usuario, error)
	Actualizar(ctx context.Context, id int64, req models.ActualizarPerfilRequest) error
	Desactivar(ctx context.Context, id int64) error
	ListarDoctores(ctx context.Context, especialidad string) ([]models.Usuario, error)
	GuardarMFA(ctx context.Context, id int64, secret string, enabled bool) error
}

type VerificacionRepository interface {
	Reemplazar(ctx context.Context, v *models.VerificacionPendiente) error
	ObtenerPorToken(ctx context.Context, token string) (*models.VerificacionPendiente, error)
	ObtenerUltimaPorEmail(ctx context.Context, email string) (*models.VerificacionPendiente, error)
	ActualizarCodigo(ctx context.Context, id int64, token, codigo string, expiraEn time.Time) error
	Promover(ctx context.Context, v *models.VerificacionPendiente) (*models.Usuario, error)
}

type PacienteRepository interface {
	ObtenerPorUsuario(ctx context.Context, usuarioID int64) (*models.PacienteDetalle, error)
	Listar(ctx context.Context) ([]models.PacienteDetalle, error)
	Actualizar(ctx context.Context, usuarioID int64, req models.ExpedienteRequest) error
}

type CitaRepository interface {
	Crear(ctx context.Context, c *models.Cita) error
	ObtenerPorID(ctx context.Context, id int64) (*models.CitaDetalle, error)
	ListarPorPaciente(ctx context.Context, pacienteID int64) ([]models.CitaDetalle, error)
	ListarPorDoctor(ctx context.Context, doctorID int64) ([]models.CitaDetalle, error)
	ActualizarEstado(ctx context.Context, id int64, desde, hacia models.EstadoCita, sala string) error
}

type RecetaRepository interface {
	Crear(ctx context.Context, r *models.Receta) error
	ObtenerPorID(ctx context.Context, id int64) (*models.Receta, error)
	ListarPorCita(ctx context.Context, citaID int64) ([]models.Receta, error)
	Actualizar(ctx context.Context, r *models.Receta) error
	Autenticar(ctx context.Context, id int64, firma string) (time.Time, error)
}

type PagoRepository interface {
	Crear(ctx context.Context, p *models.Pago) error
	ObtenerPorID(ctx context.Context, id int64) (*models.Pago, error)
	ListarPorUsuario(ctx context.Context, usuarioID int64) ([]models.Pago, error)
	ActualizarEstado(ctx context.Context, id int64, desde, hacia models.EstadoPago) error
}

type FamiliarRepository interface {
	Crear(ctx context.Context, f *models.Familiar) error
	ObtenerPorID(ctx context.Context, id int64) (*models.Familiar, error)
	Buscar(ctx context.Context, pacienteID, familiarID int64) (*models.Familiar, error)
	ListarPorPaciente(ctx context.Context, pacienteID int64) ([]models.FamiliarDetalle, error)
	ListarPorFamiliar(ctx context.Context, familiarID int64) ([]models.FamiliarDetalle, error)
	ActualizarPermisos(ctx context.Context, id, pacienteID int64, req models.PermisosFamiliarRequest) error
	Eliminar(ctx context.Context, id, pacienteID int64) error
}

// EmisorTokens firma los tokens de acceso
type EmisorTokens interface {
	Generar(usuarioID int64, rol models.Rol) (string, error)
	TTL() time.Duration
}
