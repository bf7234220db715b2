package models

import (
	"fmt"
	"time"
)

// EstadoPago estado de un pago
type EstadoPago string

const (
	PagoPendiente  EstadoPago = "pendiente"
	PagoCompletado EstadoPago = "completado"
	PagoFallido    EstadoPago = "fallido"
)

func ParseEstadoPago(s string) (EstadoPago, error) {
	switch e := EstadoPago(s); e {
	case PagoPendiente, PagoCompletado, PagoFallido:
		return e, nil
	}
	return "", fmt.Errorf("estado de pago desconocido: %q", s)
}

// Pago representa la tabla pagos en la base de datos
type Pago struct {
	ID         int64      `json:"id" db:"id"`
	PacienteID int64      `json:"paciente_id" db:"paciente_id"`
	DoctorID   int64      `json:"doctor_id" db:"doctor_id"`
	CitaID     int64      `json:"cita_id,omitempty" db:"cita_id"`
	Monto      float64    `json:"monto" db:"monto"`
	Metodo     string     `json:"metodo" db:"metodo"`
	Referencia string     `json:"referencia" db:"referencia"`
	Estado     EstadoPago `json:"estado" db:"estado"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// PagoRequest alta de un pago en el checkout
type PagoRequest struct {
	DoctorID   int64   `json:"doctor_id" validate:"required,gt=0"`
	CitaID     int64   `json:"cita_id" validate:"gte=0"`
	Monto      float64 `json:"monto" validate:"required,gt=0"`
	Metodo     string  `json:"metodo" validate:"required,oneof=tarjeta transferencia efectivo"`
	Referencia string  `json:"referencia" validate:"max=100"`
}

type CambiarEstadoPagoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=completado fallido"`
}
