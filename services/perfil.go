package services

import (
	"context"

	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/models"
)

// PerfilService perfil propio, directorio de doctores y expedientes
type PerfilService struct {
	usuarios     UsuarioRepository
	pacientes    PacienteRepository
	delegaciones Delegaciones
	log          *logger.Logger
}

func NewPerfilService(usuarios UsuarioRepository, pacientes PacienteRepository, delegaciones Delegaciones, log *logger.Logger) *PerfilService {
	return &PerfilService{usuarios: usuarios, pacientes: pacientes, delegaciones: delegaciones, log: log}
}

func (s *PerfilService) Obtener(ctx context.Context, actor Actor) (*models.Usuario, error) {
	u, err := s.usuarios.ObtenerPorID(ctx, actor.ID)
	if err != nil {
		return nil, desdeRepo(err, "Usuario no encontrado")
	}
	return u, nil
}

func (s *PerfilService) Actualizar(ctx context.Context, actor Actor, req models.ActualizarPerfilRequest) (*models.Usuario, error) {
	// la especialidad solo aplica a doctores
	if !actor.Rol.EsDoctor() {
		req.Especialidad = ""
	}
	if err := s.usuarios.Actualizar(ctx, actor.ID, req); err != nil {
		return nil, desdeRepo(err, "Usuario no encontrado")
	}
	return s.Obtener(ctx, actor)
}

// Eliminar baja lógica de la cuenta propia
func (s *PerfilService) Eliminar(ctx context.Context, actor Actor) error {
	if err := s.usuarios.Desactivar(ctx, actor.ID); err != nil {
		return desdeRepo(err, "Usuario no encontrado")
	}
	s.log.Audit(actor.ID, "desactivar_cuenta", "usuarios", true, nil)
	return nil
}

func (s *PerfilService) ListarDoctores(ctx context.Context, especialidad string) ([]models.Usuario, error) {
	doctores, err := s.usuarios.ListarDoctores(ctx, especialidad)
	if err != nil {
		return nil, errorInterno("Error al obtener doctores", err)
	}
	return doctores, nil
}

func (s *PerfilService) ListarPacientes(ctx context.Context, actor Actor) ([]models.PacienteDetalle, error) {
	if !actor.Rol.EsDoctor() {
		return nil, nuevoError(ErrProhibido, "Solo los doctores pueden listar pacientes")
	}
	pacientes, err := s.pacientes.Listar(ctx)
	if err != nil {
		return nil, errorInterno("Error al obtener pacientes", err)
	}
	return pacientes, nil
}

// ObtenerPaciente expediente de un paciente: doctores, el propio paciente o
// familiares con acceso al historial
func (s *PerfilService) ObtenerPaciente(ctx context.Context, actor Actor, usuarioID int64) (*models.PacienteDetalle, error) {
	if !actor.Rol.EsDoctor() && actor.ID != usuarioID {
		ok, err := s.delegaciones.PuedeVerHistorial(ctx, actor.ID, usuarioID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nuevoError(ErrProhibido, "No tienes acceso a este expediente")
		}
	}

	p, err := s.pacientes.ObtenerPorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, desdeRepo(err, "Paciente no encontrado")
	}
	return p, nil
}

func (s *PerfilService) ObtenerExpediente(ctx context.Context, actor Actor) (*models.PacienteDetalle, error) {
	if !actor.Rol.EsPaciente() {
		return nil, nuevoError(ErrProhibido, "Solo los pacientes tienen expediente")
	}
	return s.ObtenerPaciente(ctx, actor, actor.ID)
}

func (s *PerfilService) ActualizarExpediente(ctx context.Context, actor Actor, req models.ExpedienteRequest) (*models.PacienteDetalle, error) {
	if !actor.Rol.EsPaciente() {
		return nil, nuevoError(ErrProhibido, "Solo los pacientes tienen expediente")
	}
	if err := s.pacientes.Actualizar(ctx, actor.ID, req); err != nil {
		return nil, desdeRepo(err, "Paciente no encontrado")
	}
	return s.ObtenerPaciente(ctx, actor, actor.ID)
}
