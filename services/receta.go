package services

import (
	"context"
	"errors"

	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/lizet96/mediconnect-backend/repository"
)

// RecetaService recetas emitidas al completar una cita
type RecetaService struct {
	recetas      RecetaRepository
	citas        CitaRepository
	delegaciones Delegaciones
	log          *logger.Logger
}

func NewRecetaService(recetas RecetaRepository, citas CitaRepository, delegaciones Delegaciones, log *logger.Logger) *RecetaService {
	return &RecetaService{recetas: recetas, citas: citas, delegaciones: delegaciones, log: log}
}

// citaDelDoctor exige que el actor sea el doctor de la cita
func (s *RecetaService) citaDelDoctor(ctx context.Context, actor Actor, citaID int64) (*models.CitaDetalle, error) {
	cita, err := s.citas.ObtenerPorID(ctx, citaID)
	if err != nil {
		return nil, desdeRepo(err, "Cita no encontrada")
	}
	if !actor.Rol.EsDoctor() || cita.DoctorID != actor.ID {
		return nil, nuevoError(ErrProhibido, "Solo el doctor de la cita puede gestionar sus recetas")
	}
	return cita, nil
}

// accesoCita participantes de la cita o familiares con acceso al historial
func (s *RecetaService) accesoCita(ctx context.Context, actor Actor, citaID int64) error {
	cita, err := s.citas.ObtenerPorID(ctx, citaID)
	if err != nil {
		return desdeRepo(err, "Cita no encontrada")
	}
	if cita.EsParticipante(actor.ID) {
		return nil
	}
	ok, err := s.delegaciones.PuedeVerHistorial(ctx, actor.ID, cita.PacienteID)
	if err != nil {
		return err
	}
	if !ok {
		return nuevoError(ErrProhibido, "No tienes acceso a esta receta")
	}
	return nil
}

// Crear solo para citas completadas
func (s *RecetaService) Crear(ctx context.Context, actor Actor, req models.RecetaRequest) (*models.Receta, error) {
	cita, err := s.citaDelDoctor(ctx, actor, req.CitaID)
	if err != nil {
		return nil, err
	}
	if cita.Estado != models.EstadoCompletado {
		return nil, nuevoError(ErrConflicto, "Solo se pueden emitir recetas de citas completadas")
	}

	receta := &models.Receta{
		CitaID:       req.CitaID,
		Medicamentos: req.Medicamentos,
		Indicaciones: req.Indicaciones,
		FotoURL:      req.FotoURL,
	}
	if err := s.recetas.Crear(ctx, receta); err != nil {
		return nil, desdeRepo(err, "Cita no encontrada")
	}

	s.log.Audit(actor.ID, "crear_receta", "recetas", true, map[string]interface{}{"receta_id": receta.ID, "cita_id": req.CitaID})
	return receta, nil
}

func (s *RecetaService) Obtener(ctx context.Context, actor Actor, id int64) (*models.Receta, error) {
	receta, err := s.recetas.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, desdeRepo(err, "Receta no encontrada")
	}
	if err := s.accesoCita(ctx, actor, receta.CitaID); err != nil {
		return nil, err
	}
	return receta, nil
}

func (s *RecetaService) ListarPorCita(ctx context.Context, actor Actor, citaID int64) ([]models.Receta, error) {
	if err := s.accesoCita(ctx, actor, citaID); err != nil {
		return nil, err
	}
	recetas, err := s.recetas.ListarPorCita(ctx, citaID)
	if err != nil {
		return nil, errorInterno("Error al obtener recetas", err)
	}
	return recetas, nil
}

var errRecetaAutenticada = nuevoError(ErrConflicto, "La receta ya está autenticada y no puede modificarse")

// Actualizar reemplaza medicamentos e indicaciones mientras no esté autenticada
func (s *RecetaService) Actualizar(ctx context.Context, actor Actor, id int64, req models.RecetaRequest) (*models.Receta, error) {
	receta, err := s.recetas.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, desdeRepo(err, "Receta no encontrada")
	}
	if req.CitaID != receta.CitaID {
		return nil, nuevoError(ErrValidacion, "No se puede cambiar la cita de una receta")
	}
	if _, err := s.citaDelDoctor(ctx, actor, receta.CitaID); err != nil {
		return nil, err
	}
	if receta.Autenticada {
		return nil, errRecetaAutenticada
	}

	receta.Medicamentos = req.Medicamentos
	receta.Indicaciones = req.Indicaciones
	receta.FotoURL = req.FotoURL

	err = s.recetas.Actualizar(ctx, receta)
	if errors.Is(err, repository.ErrNoEncontrado) {
		return nil, errRecetaAutenticada
	}
	if err != nil {
		return nil, errorInterno("Error al actualizar la receta", err)
	}
	return receta, nil
}

// Autenticar guarda la firma digital del doctor; la receta queda inmutable
func (s *RecetaService) Autenticar(ctx context.Context, actor Actor, id int64, firma string) (*models.Receta, error) {
	receta, err := s.recetas.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, desdeRepo(err, "Receta no encontrada")
	}
	if _, err := s.citaDelDoctor(ctx, actor, receta.CitaID); err != nil {
		return nil, err
	}
	if receta.Autenticada {
		return nil, errRecetaAutenticada
	}

	en, err := s.recetas.Autenticar(ctx, id, firma)
	if errors.Is(err, repository.ErrNoEncontrado) {
		return nil, errRecetaAutenticada
	}
	if err != nil {
		return nil, errorInterno("Error al autenticar la receta", err)
	}

	receta.FirmaDigital = firma
	receta.Autenticada = true
	receta.AutenticadaEn = &en
	s.log.Audit(actor.ID, "autenticar_receta", "recetas", true, map[string]interface{}{"receta_id": id})
	return receta, nil
}
