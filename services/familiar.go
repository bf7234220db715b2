package services

import (
	"context"
	"errors"

	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/lizet96/mediconnect-backend/repository"
)

// FamiliarService delegaciones de un paciente hacia otros usuarios
type FamiliarService struct {
	familiares FamiliarRepository
	usuarios   UsuarioRepository
	log        *logger.Logger
}

func NewFamiliarService(familiares FamiliarRepository, usuarios UsuarioRepository, log *logger.Logger) *FamiliarService {
	return &FamiliarService{familiares: familiares, usuarios: usuarios, log: log}
}

// Agregar vincula a un usuario registrado, identificado por su correo
func (s *FamiliarService) Agregar(ctx context.Context, actor Actor, req models.FamiliarRequest) (*models.Familiar, error) {
	if !actor.Rol.EsPaciente() {
		return nil, nuevoError(ErrProhibido, "Solo los pacientes pueden agregar familiares")
	}

	familiar, err := s.usuarios.ObtenerPorEmail(ctx, normalizarEmail(req.EmailFamiliar))
	if err != nil {
		return nil, desdeRepo(err, "No existe un usuario con ese correo")
	}
	if !familiar.Activo {
		return nil, nuevoError(ErrValidacion, "La cuenta del familiar está desactivada")
	}
	if familiar.ID == actor.ID {
		return nil, nuevoError(ErrValidacion, "No puedes agregarte como tu propio familiar")
	}

	f := &models.Familiar{
		PacienteID:        actor.ID,
		FamiliarID:        familiar.ID,
		Parentesco:        req.Parentesco,
		PuedeAgendar:      req.PuedeAgendar,
		PuedeVerHistorial: req.PuedeVerHistorial,
	}
	err = s.familiares.Crear(ctx, f)
	if errors.Is(err, repository.ErrDuplicado) {
		return nil, nuevoError(ErrConflicto, "Ese familiar ya está vinculado")
	}
	if err != nil {
		return nil, desdeRepo(err, "Usuario no encontrado")
	}

	s.log.Audit(actor.ID, "agregar_familiar", "familiares", true, map[string]interface{}{"familiar_id": familiar.ID})
	return f, nil
}

// Listar familiares a los que el paciente concedió permisos
func (s *FamiliarService) Listar(ctx context.Context, actor Actor) ([]models.FamiliarDetalle, error) {
	lista, err := s.familiares.ListarPorPaciente(ctx, actor.ID)
	if err != nil {
		return nil, errorInterno("Error al obtener familiares", err)
	}
	return lista, nil
}

// ListarPacientes pacientes que delegaron permisos en el usuario
func (s *FamiliarService) ListarPacientes(ctx context.Context, actor Actor) ([]models.FamiliarDetalle, error) {
	lista, err := s.familiares.ListarPorFamiliar(ctx, actor.ID)
	if err != nil {
		return nil, errorInterno("Error al obtener pacientes", err)
	}
	return lista, nil
}

func (s *FamiliarService) ActualizarPermisos(ctx context.Context, actor Actor, id int64, req models.PermisosFamiliarRequest) (*models.Familiar, error) {
	if err := s.familiares.ActualizarPermisos(ctx, id, actor.ID, req); err != nil {
		return nil, desdeRepo(err, "Familiar no encontrado")
	}
	f, err := s.familiares.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, desdeRepo(err, "Familiar no encontrado")
	}
	return f, nil
}

// Eliminar solo el paciente que creó la delegación puede revocarla
func (s *FamiliarService) Eliminar(ctx context.Context, actor Actor, id int64) error {
	if err := s.familiares.Eliminar(ctx, id, actor.ID); err != nil {
		return desdeRepo(err, "Familiar no encontrado")
	}
	s.log.Audit(actor.ID, "eliminar_familiar", "familiares", true, map[string]interface{}{"familiar_link_id": id})
	return nil
}

func (s *FamiliarService) permiso(ctx context.Context, familiarID, pacienteID int64) (*models.Familiar, error) {
	f, err := s.familiares.Buscar(ctx, pacienteID, familiarID)
	if errors.Is(err, repository.ErrNoEncontrado) {
		return nil, nil
	}
	if err != nil {
		return nil, errorInterno("Error al verificar permisos", err)
	}
	return f, nil
}

func (s *FamiliarService) PuedeAgendar(ctx context.Context, familiarID, pacienteID int64) (bool, error) {
	f, err := s.permiso(ctx, familiarID, pacienteID)
	if err != nil || f == nil {
		return false, err
	}
	return f.PuedeAgendar, nil
}

func (s *FamiliarService) PuedeVerHistorial(ctx context.Context, familiarID, pacienteID int64) (bool, error) {
	f, err := s.permiso(ctx, familiarID, pacienteID)
	if err != nil || f == nil {
		return false, err
	}
	return f.PuedeVerHistorial, nil
}
