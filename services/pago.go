package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/metricas"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/lizet96/mediconnect-backend/notificaciones"
	"github.com/lizet96/mediconnect-backend/repository"
)

// PagoService pagos de consultas
type PagoService struct {
	pagos       PagoRepository
	usuarios    UsuarioRepository
	citas       CitaRepository
	notificador notificador
	log         *logger.Logger
}

func NewPagoService(
	pagos PagoRepository,
	usuarios UsuarioRepository,
	citas CitaRepository,
	mailer notificaciones.Mailer,
	m *metricas.Metricas,
	log *logger.Logger,
) *PagoService {
	return &PagoService{
		pagos:       pagos,
		usuarios:    usuarios,
		citas:       citas,
		notificador: notificador{mailer: mailer, metricas: m, log: log},
		log:         log,
	}
}

func nuevaReferencia() string {
	return "PAG-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// Crear registra un pago pendiente del paciente hacia un doctor
func (s *PagoService) Crear(ctx context.Context, actor Actor, req models.PagoRequest) (*models.Pago, error) {
	if !actor.Rol.EsPaciente() {
		return nil, nuevoError(ErrProhibido, "Solo los pacientes pueden registrar pagos")
	}

	doctor, err := s.usuarios.ObtenerPorID(ctx, req.DoctorID)
	if errors.Is(err, repository.ErrNoEncontrado) || (err == nil && (!doctor.Rol.EsDoctor() || !doctor.Activo)) {
		return nil, nuevoError(ErrValidacion, "El doctor indicado no existe")
	}
	if err != nil {
		return nil, errorInterno("Error al buscar el doctor", err)
	}

	if req.CitaID != 0 {
		cita, err := s.citas.ObtenerPorID(ctx, req.CitaID)
		if err != nil {
			return nil, desdeRepo(err, "Cita no encontrada")
		}
		if cita.PacienteID != actor.ID || cita.DoctorID != req.DoctorID {
			return nil, nuevoError(ErrValidacion, "La cita no corresponde al paciente y doctor del pago")
		}
	}

	referencia := strings.TrimSpace(req.Referencia)
	if referencia == "" {
		referencia = nuevaReferencia()
	}

	pago := &models.Pago{
		PacienteID: actor.ID,
		DoctorID:   req.DoctorID,
		CitaID:     req.CitaID,
		Monto:      req.Monto,
		Metodo:     req.Metodo,
		Referencia: referencia,
		Estado:     models.PagoPendiente,
	}
	if err := s.pagos.Crear(ctx, pago); err != nil {
		return nil, desdeRepo(err, "Doctor o cita no encontrados")
	}

	s.log.Audit(actor.ID, "crear_pago", "pagos", true, map[string]interface{}{"pago_id": pago.ID, "monto": pago.Monto})
	return pago, nil
}

func (s *PagoService) Listar(ctx context.Context, actor Actor) ([]models.Pago, error) {
	pagos, err := s.pagos.ListarPorUsuario(ctx, actor.ID)
	if err != nil {
		return nil, errorInterno("Error al obtener pagos", err)
	}
	return pagos, nil
}

func (s *PagoService) Obtener(ctx context.Context, actor Actor, id int64) (*models.Pago, error) {
	pago, err := s.pagos.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, desdeRepo(err, "Pago no encontrado")
	}
	if pago.PacienteID != actor.ID && pago.DoctorID != actor.ID {
		return nil, nuevoError(ErrProhibido, "No tienes acceso a este pago")
	}
	return pago, nil
}

// CambiarEstado cierra un pago pendiente como completado o fallido
func (s *PagoService) CambiarEstado(ctx context.Context, actor Actor, id int64, estado string) (*models.Pago, error) {
	nuevo, err := models.ParseEstadoPago(estado)
	if err != nil || nuevo == models.PagoPendiente {
		return nil, nuevoError(ErrValidacion, "El estado debe ser completado o fallido")
	}

	pago, err := s.Obtener(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if pago.Estado != models.PagoPendiente {
		return nil, nuevoError(ErrConflicto, "El pago ya fue procesado")
	}

	err = s.pagos.ActualizarEstado(ctx, id, models.PagoPendiente, nuevo)
	if errors.Is(err, repository.ErrNoEncontrado) {
		return nil, nuevoError(ErrConflicto, "El pago ya fue procesado")
	}
	if err != nil {
		return nil, errorInterno("Error al actualizar el pago", err)
	}
	pago.Estado = nuevo

	if nuevo == models.PagoCompletado {
		s.enviarRecibo(ctx, pago)
	}
	return pago, nil
}

func (s *PagoService) enviarRecibo(ctx context.Context, pago *models.Pago) bool {
	paciente, err := s.usuarios.ObtenerPorID(ctx, pago.PacienteID)
	if err != nil {
		return s.notificador.enviar(ctx, notificaciones.TipoReciboPago, notificaciones.Mensaje{}, err)
	}
	doctor, err := s.usuarios.ObtenerPorID(ctx, pago.DoctorID)
	if err != nil {
		return s.notificador.enviar(ctx, notificaciones.TipoReciboPago, notificaciones.Mensaje{}, err)
	}

	msg, err := notificaciones.MensajeReciboPago(paciente.Email, notificaciones.DatosPago{
		Paciente:   paciente.NombreCompleto(),
		Doctor:     doctor.NombreCompleto(),
		Monto:      pago.Monto,
		Metodo:     pago.Metodo,
		Referencia: pago.Referencia,
	})
	return s.notificador.enviar(ctx, notificaciones.TipoReciboPago, msg, err)
}
