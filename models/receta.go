package models

import (
	"time"
)

// Medicamento elemento de la lista de una receta
type Medicamento struct {
	Nombre     string `json:"nombre" validate:"required,max=255"`
	Dosis      string `json:"dosis" validate:"required,max=100"`
	Frecuencia string `json:"frecuencia" validate:"max=100"`
	Duracion   string `json:"duracion" validate:"max=100"`
}

// Receta representa la tabla recetas en la base de datos
type Receta struct {
	ID            int64         `json:"id" db:"id"`
	CitaID        int64         `json:"cita_id" db:"cita_id"`
	Medicamentos  []Medicamento `json:"medicamentos" db:"medicamentos"`
	Indicaciones  string        `json:"indicaciones" db:"indicaciones"`
	FotoURL       string        `json:"foto_url,omitempty" db:"foto_url"`
	FirmaDigital  string        `json:"firma_digital,omitempty" db:"firma_digital"`
	Autenticada   bool          `json:"autenticada" db:"autenticada"`
	AutenticadaEn *time.Time    `json:"autenticada_en,omitempty" db:"autenticada_en"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// RecetaRequest alta o edición de una receta
type RecetaRequest struct {
	CitaID       int64         `json:"cita_id" validate:"required,gt=0"`
	Medicamentos []Medicamento `json:"medicamentos" validate:"required,min=1,dive"`
	Indicaciones string        `json:"indicaciones" validate:"max=2000"`
	FotoURL      string        `json:"foto_url" validate:"omitempty,url"`
}

// AutenticarRecetaRequest firma digital del doctor
type AutenticarRecetaRequest struct {
	FirmaDigital string `json:"firma_digital" validate:"required"`
}
