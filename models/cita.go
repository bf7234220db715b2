package models

import (
	"fmt"
	"time"
)

// EstadoCita estado del ciclo de vida de una cita
type EstadoCita string

const (
	EstadoPendiente  EstadoCita = "pendiente"
	EstadoConfirmada EstadoCita = "confirmada"
	EstadoEnProgreso EstadoCita = "en_progreso"
	EstadoCompletado EstadoCita = "completado"
	EstadoCancelado  EstadoCita = "cancelado"
)

// ParseEstadoCita valida un estado recibido por la API o leído de la base
func ParseEstadoCita(s string) (EstadoCita, error) {
	switch e := EstadoCita(s); e {
	case EstadoPendiente, EstadoConfirmada, EstadoEnProgreso, EstadoCompletado, EstadoCancelado:
		return e, nil
	}
	return "", fmt.Errorf("estado de cita desconocido: %q", s)
}

// Terminal indica que la cita ya no admite cambios de estado
func (e EstadoCita) Terminal() bool {
	return e == EstadoCompletado || e == EstadoCancelado
}

// Modalidad canal de la consulta
type Modalidad string

const (
	ModalidadChat  Modalidad = "chat"
	ModalidadVideo Modalidad = "video"
)

func ParseModalidad(s string) (Modalidad, error) {
	switch m := Modalidad(s); m {
	case ModalidadChat, ModalidadVideo:
		return m, nil
	case "":
		return ModalidadChat, nil
	}
	return "", fmt.Errorf("modalidad desconocida: %q", s)
}

// Cita representa la tabla citas en la base de datos
type Cita struct {
	ID         int64      `json:"id" db:"id"`
	PacienteID int64      `json:"paciente_id" db:"paciente_id"`
	DoctorID   int64      `json:"doctor_id" db:"doctor_id"`
	CreadaPor  int64      `json:"creada_por" db:"creada_por"`
	Fecha      time.Time  `json:"fecha" db:"fecha"`
	Hora       string     `json:"hora" db:"hora"`
	Motivo     string     `json:"motivo" db:"motivo"`
	Estado     EstadoCita `json:"estado" db:"estado"`
	Modalidad  Modalidad  `json:"modalidad" db:"modalidad"`
	SalaVideo  string     `json:"sala_video,omitempty" db:"sala_video"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// EsParticipante indica si el usuario es el paciente o el doctor de la cita
func (c *Cita) EsParticipante(usuarioID int64) bool {
	return c.PacienteID == usuarioID || c.DoctorID == usuarioID
}

// CitaDetalle cita con los nombres de los participantes
type CitaDetalle struct {
	Cita
	PacienteNombre string `json:"paciente_nombre"`
	DoctorNombre   string `json:"doctor_nombre"`
}

// CitaRequest representa una solicitud para agendar una cita.
// PacienteID es opcional: si se omite se agenda para el propio usuario.
type CitaRequest struct {
	PacienteID int64  `json:"paciente_id"`
	DoctorID   int64  `json:"doctor_id" validate:"required,gt=0"`
	Fecha      string `json:"fecha" validate:"required,datetime=2006-01-02"`
	Hora       string `json:"hora" validate:"required,datetime=15:04"`
	Motivo     string `json:"motivo" validate:"max=500"`
	Modalidad  string `json:"modalidad" validate:"omitempty,oneof=chat video"`
}

// CambiarEstadoCitaRequest transición solicitada por un participante
type CambiarEstadoCitaRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// SalaVideo datos que el frontend entrega al widget de videoconsulta
type SalaVideo struct {
	Sala string `json:"sala"`
	URL  string `json:"url"`
}

// TransicionCita resultado de un cambio de estado
type TransicionCita struct {
	Cita                *Cita      `json:"cita"`
	EstadoAnterior      EstadoCita `json:"estado_anterior"`
	Video               *SalaVideo `json:"video,omitempty"`
	NotificacionEnviada bool       `json:"-"`
}
