package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/metricas"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/lizet96/mediconnect-backend/notificaciones"
	"github.com/lizet96/mediconnect-backend/repository"
)

// Delegaciones permisos que un paciente concedió a un familiar
type Delegaciones interface {
	PuedeAgendar(ctx context.Context, familiarID, pacienteID int64) (bool, error)
	PuedeVerHistorial(ctx context.Context, familiarID, pacienteID int64) (bool, error)
}

// CitaService ciclo de vida de las citas
type CitaService struct {
	citas        CitaRepository
	usuarios     UsuarioRepository
	delegaciones Delegaciones
	notificador  notificador
	metricas     *metricas.Metricas
	log          *logger.Logger
	videoDomain  string
	nuevaSala    func() string
}

func NewCitaService(
	citas CitaRepository,
	usuarios UsuarioRepository,
	delegaciones Delegaciones,
	mailer notificaciones.Mailer,
	videoDomain string,
	m *metricas.Metricas,
	log *logger.Logger,
) *CitaService {
	return &CitaService{
		citas:        citas,
		usuarios:     usuarios,
		delegaciones: delegaciones,
		notificador:  notificador{mailer: mailer, metricas: m, log: log},
		metricas:     m,
		log:          log,
		videoDomain:  videoDomain,
		nuevaSala:    func() string { return "mediconnect-" + uuid.NewString() },
	}
}

// usuarioConRol resuelve un participante y exige que esté activo y tenga el rol
func (s *CitaService) usuarioConRol(ctx context.Context, id int64, rol models.Rol) (*models.Usuario, error) {
	u, err := s.usuarios.ObtenerPorID(ctx, id)
	if errors.Is(err, repository.ErrNoEncontrado) {
		return nil, nuevoError(ErrValidacion, fmt.Sprintf("El %s indicado no existe", rol))
	}
	if err != nil {
		return nil, errorInterno("Error al buscar el usuario", err)
	}
	if u.Rol != rol || !u.Activo {
		return nil, nuevoError(ErrValidacion, fmt.Sprintf("El usuario %d no es un %s activo", id, rol))
	}
	return u, nil
}

// Agendar crea una cita pendiente. Un familiar puede agendar por el paciente
// si tiene el permiso puede_agendar.
func (s *CitaService) Agendar(ctx context.Context, actor Actor, req models.CitaRequest) (*models.Cita, error) {
	pacienteID := req.PacienteID
	if pacienteID == 0 {
		pacienteID = actor.ID
	}
	if pacienteID != actor.ID {
		ok, err := s.delegaciones.PuedeAgendar(ctx, actor.ID, pacienteID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nuevoError(ErrProhibido, "No tienes permiso para agendar citas de este paciente")
		}
	}

	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, nuevoError(ErrValidacion, "La fecha debe tener formato YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.Hora); err != nil {
		return nil, nuevoError(ErrValidacion, "La hora debe tener formato HH:MM")
	}
	modalidad, err := models.ParseModalidad(req.Modalidad)
	if err != nil {
		return nil, nuevoError(ErrValidacion, "La modalidad debe ser chat o video")
	}

	paciente, err := s.usuarioConRol(ctx, pacienteID, models.RolPaciente)
	if err != nil {
		return nil, err
	}
	doctor, err := s.usuarioConRol(ctx, req.DoctorID, models.RolDoctor)
	if err != nil {
		return nil, err
	}

	cita := &models.Cita{
		PacienteID: paciente.ID,
		DoctorID:   doctor.ID,
		CreadaPor:  actor.ID,
		Fecha:      fecha,
		Hora:       req.Hora,
		Motivo:     req.Motivo,
		Estado:     models.EstadoPendiente,
		Modalidad:  modalidad,
	}
	if err := s.citas.Crear(ctx, cita); err != nil {
		return nil, desdeRepo(err, "Paciente o doctor no encontrado")
	}

	s.log.WithComponent("citas").WithField("cita_id", cita.ID).WithField("creada_por", actor.ID).Info("Cita agendada")

	msg, err := notificaciones.MensajeCitaSolicitada(doctor.Email, datosCorreo(cita, paciente, doctor, doctor))
	s.notificador.enviar(ctx, notificaciones.TipoCitaSolicitada, msg, err)

	return cita, nil
}

// Listar citas propias: las del paciente o las del doctor según el rol
func (s *CitaService) Listar(ctx context.Context, actor Actor) ([]models.CitaDetalle, error) {
	var (
		citas []models.CitaDetalle
		err   error
	)
	if actor.Rol.EsDoctor() {
		citas, err = s.citas.ListarPorDoctor(ctx, actor.ID)
	} else {
		citas, err = s.citas.ListarPorPaciente(ctx, actor.ID)
	}
	if err != nil {
		return nil, errorInterno("Error al obtener citas", err)
	}
	return citas, nil
}

// ListarPorPaciente historial de citas de un paciente
func (s *CitaService) ListarPorPaciente(ctx context.Context, actor Actor, pacienteID int64) ([]models.CitaDetalle, error) {
	if err := s.verHistorial(ctx, actor, pacienteID); err != nil {
		return nil, err
	}
	citas, err := s.citas.ListarPorPaciente(ctx, pacienteID)
	if err != nil {
		return nil, errorInterno("Error al obtener citas", err)
	}
	return citas, nil
}

// verHistorial el propio paciente, cualquier doctor o un familiar con permiso
func (s *CitaService) verHistorial(ctx context.Context, actor Actor, pacienteID int64) error {
	if actor.ID == pacienteID || actor.Rol.EsDoctor() {
		return nil
	}
	ok, err := s.delegaciones.PuedeVerHistorial(ctx, actor.ID, pacienteID)
	if err != nil {
		return err
	}
	if !ok {
		return nuevoError(ErrProhibido, "No tienes acceso al historial de este paciente")
	}
	return nil
}

func (s *CitaService) Obtener(ctx context.Context, actor Actor, id int64) (*models.CitaDetalle, error) {
	cita, err := s.citas.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, desdeRepo(err, "Cita no encontrada")
	}
	if cita.EsParticipante(actor.ID) {
		return cita, nil
	}

	ok, err := s.delegaciones.PuedeVerHistorial(ctx, actor.ID, cita.PacienteID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nuevoError(ErrProhibido, "No tienes acceso a esta cita")
	}
	return cita, nil
}

// CambiarEstado aplica una transición pedida por el paciente o el doctor de la
// cita. Cualquier estado no terminal puede pasar a cualquier otro; completado
// y cancelado no admiten más cambios.
func (s *CitaService) CambiarEstado(ctx context.Context, actor Actor, id int64, estado string) (*models.TransicionCita, error) {
	nuevo, err := models.ParseEstadoCita(estado)
	if err != nil {
		return nil, nuevoError(ErrValidacion, "Estado de cita inválido")
	}

	detalle, err := s.citas.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, desdeRepo(err, "Cita no encontrada")
	}
	cita := &detalle.Cita
	if !cita.EsParticipante(actor.ID) {
		return nil, nuevoError(ErrProhibido, "Solo el paciente o el doctor pueden cambiar el estado de la cita")
	}

	anterior := cita.Estado
	if anterior.Terminal() {
		return nil, nuevoError(ErrConflicto, fmt.Sprintf("La cita ya está en estado %s", anterior))
	}
	if anterior == nuevo {
		return nil, nuevoError(ErrConflicto, fmt.Sprintf("La cita ya está en estado %s", nuevo))
	}

	sala := ""
	if nuevo == models.EstadoEnProgreso && cita.Modalidad == models.ModalidadVideo {
		sala = cita.SalaVideo
		if sala == "" {
			sala = s.nuevaSala()
		}
	}

	err = s.citas.ActualizarEstado(ctx, id, anterior, nuevo, sala)
	if errors.Is(err, repository.ErrNoEncontrado) {
		// otro participante cambió el estado entre la lectura y la escritura
		return nil, nuevoError(ErrConflicto, "La cita cambió de estado, vuelve a intentarlo")
	}
	if err != nil {
		return nil, errorInterno("Error al actualizar la cita", err)
	}

	cita.Estado = nuevo
	if sala != "" {
		cita.SalaVideo = sala
	}
	s.metricas.TransicionCita(string(anterior), string(nuevo))
	s.log.WithComponent("citas").WithField("cita_id", id).WithField("actor", actor.ID).
		WithField("desde", string(anterior)).WithField("hacia", string(nuevo)).Info("Cambio de estado de cita")

	resultado := &models.TransicionCita{Cita: cita, EstadoAnterior: anterior}
	if sala != "" {
		resultado.Video = &models.SalaVideo{Sala: sala, URL: fmt.Sprintf("https://%s/%s", s.videoDomain, sala)}
	}

	switch {
	case anterior == models.EstadoPendiente && nuevo == models.EstadoConfirmada:
		resultado.NotificacionEnviada = s.notificarConfirmacion(ctx, cita)
	case nuevo == models.EstadoCancelado:
		resultado.NotificacionEnviada = s.notificarCancelacion(ctx, actor, cita)
	}
	return resultado, nil
}

func (s *CitaService) participantes(ctx context.Context, cita *models.Cita) (*models.Usuario, *models.Usuario, error) {
	paciente, err := s.usuarios.ObtenerPorID(ctx, cita.PacienteID)
	if err != nil {
		return nil, nil, err
	}
	doctor, err := s.usuarios.ObtenerPorID(ctx, cita.DoctorID)
	if err != nil {
		return nil, nil, err
	}
	return paciente, doctor, nil
}

func (s *CitaService) notificarConfirmacion(ctx context.Context, cita *models.Cita) bool {
	paciente, doctor, err := s.participantes(ctx, cita)
	if err != nil {
		return s.notificador.enviar(ctx, notificaciones.TipoCitaConfirmada, notificaciones.Mensaje{}, err)
	}
	msg, err := notificaciones.MensajeCitaConfirmada(paciente.Email, datosCorreo(cita, paciente, doctor, paciente))
	return s.notificador.enviar(ctx, notificaciones.TipoCitaConfirmada, msg, err)
}

// notificarCancelacion avisa a la contraparte de quien canceló
func (s *CitaService) notificarCancelacion(ctx context.Context, actor Actor, cita *models.Cita) bool {
	paciente, doctor, err := s.participantes(ctx, cita)
	if err != nil {
		return s.notificador.enviar(ctx, notificaciones.TipoCitaCancelada, notificaciones.Mensaje{}, err)
	}
	destinatario := paciente
	if actor.ID == paciente.ID {
		destinatario = doctor
	}
	msg, err := notificaciones.MensajeCitaCancelada(destinatario.Email, datosCorreo(cita, paciente, doctor, destinatario))
	return s.notificador.enviar(ctx, notificaciones.TipoCitaCancelada, msg, err)
}

func datosCorreo(cita *models.Cita, paciente, doctor, destinatario *models.Usuario) notificaciones.DatosCita {
	return notificaciones.DatosCita{
		Destinatario: destinatario.NombreCompleto(),
		Paciente:     paciente.NombreCompleto(),
		Doctor:       doctor.NombreCompleto(),
		Fecha:        cita.Fecha.Format("2006-01-02"),
		Hora:         cita.Hora,
		Modalidad:    string(cita.Modalidad),
		Motivo:       cita.Motivo,
	}
}
