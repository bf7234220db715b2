package models

import "time"

// Paciente extensión uno a uno de Usuario con datos médicos
type Paciente struct {
	ID                   int64     `json:"id" db:"id"`
	UsuarioID            int64     `json:"usuario_id" db:"usuario_id"`
	TipoSangre           string    `json:"tipo_sangre" db:"tipo_sangre"`
	Alergias             string    `json:"alergias" db:"alergias"`
	EnfermedadesCronicas string    `json:"enfermedades_cronicas" db:"enfermedades_cronicas"`
	ContactoEmergencia   string    `json:"contacto_emergencia" db:"contacto_emergencia"`
	TelefonoEmergencia   string    `json:"telefono_emergencia" db:"telefono_emergencia"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// PacienteDetalle paciente con sus datos de usuario
type PacienteDetalle struct {
	Paciente
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
}

// ExpedienteRequest actualización de los datos médicos del paciente
type ExpedienteRequest struct {
	TipoSangre           string `json:"tipo_sangre" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Alergias             string `json:"alergias"`
	EnfermedadesCronicas string `json:"enfermedades_cronicas"`
	ContactoEmergencia   string `json:"contacto_emergencia" validate:"max=150"`
	TelefonoEmergencia   string `json:"telefono_emergencia" validate:"max=30"`
}
