package models

import "time"

// Familiar delegación: el paciente concede a otro usuario permisos
// limitados sobre su agenda y su historial
type Familiar struct {
	ID                int64     `json:"id" db:"id"`
	PacienteID        int64     `json:"paciente_id" db:"paciente_id"`
	FamiliarID        int64     `json:"familiar_id" db:"familiar_id"`
	Parentesco        string    `json:"parentesco" db:"parentesco"`
	PuedeAgendar      bool      `json:"puede_agendar" db:"puede_agendar"`
	PuedeVerHistorial bool      `json:"puede_ver_historial" db:"puede_ver_historial"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// FamiliarDetalle delegación con el nombre y correo de la contraparte
type FamiliarDetalle struct {
	Familiar
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

// FamiliarRequest alta de un familiar por correo
type FamiliarRequest struct {
	EmailFamiliar     string `json:"email_familiar" validate:"required,email"`
	Parentesco        string `json:"parentesco" validate:"required,max=50"`
	PuedeAgendar      bool   `json:"puede_agendar"`
	PuedeVerHistorial bool   `json:"puede_ver_historial"`
}

// PermisosFamiliarRequest actualización de permisos
type PermisosFamiliarRequest struct {
	PuedeAgendar      bool `json:"puede_agendar"`
	PuedeVerHistorial bool `json:"puede_ver_historial"`
}
