package models

import (
	"fmt"
	"time"
)

// Rol distingue el comportamiento de doctores y pacientes
type Rol string

const (
	RolDoctor   Rol = "doctor"
	RolPaciente Rol = "paciente"
)

// ParseRol convierte el texto almacenado en un Rol válido
func ParseRol(s string) (Rol, error) {
	switch Rol(s) {
	case RolDoctor, RolPaciente:
		return Rol(s), nil
	}
	return "", fmt.Errorf("rol desconocido: %q", s)
}

func (r Rol) EsDoctor() bool   { return r == RolDoctor }
func (r Rol) EsPaciente() bool { return r == RolPaciente }

// Usuario representa la tabla usuarios en la base de datos
type Usuario struct {
	ID                int64     `json:"id" db:"id"`
	Nombre            string    `json:"nombre" db:"nombre"`
	Apellido          string    `json:"apellido" db:"apellido"`
	Email             string    `json:"email" db:"email"`
	PasswordHash      string    `json:"-" db:"password_hash"`
	Rol               Rol       `json:"rol" db:"rol"`
	Telefono          string    `json:"telefono,omitempty" db:"telefono"`
	CedulaProfesional string    `json:"cedula_profesional,omitempty" db:"cedula_profesional"`
	Especialidad      string    `json:"especialidad,omitempty" db:"especialidad"`
	Activo            bool      `json:"activo" db:"activo"`
	MFAEnabled        bool      `json:"mfa_enabled" db:"mfa_enabled"`
	MFASecret         string    `json:"-" db:"mfa_secret"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// NombreCompleto nombre y apellido separados por espacio
func (u *Usuario) NombreCompleto() string {
	return u.Nombre + " " + u.Apellido
}

// RegistroRequest solicitud de registro de un usuario nuevo
type RegistroRequest struct {
	Nombre            string `json:"nombre" validate:"required,max=100"`
	Apellido          string `json:"apellido" validate:"required,max=100"`
	Email             string `json:"email" validate:"required,email,max=255"`
	Password          string `json:"password" validate:"required,min=6,max=72"`
	Rol               string `json:"rol" validate:"required,oneof=doctor paciente"`
	Telefono          string `json:"telefono" validate:"max=30"`
	CedulaProfesional string `json:"cedula_profesional" validate:"max=50"`
	Especialidad      string `json:"especialidad" validate:"max=100"`
}

// RegistroResponse respuesta del registro; el código viaja solo por correo
type RegistroResponse struct {
	Email    string    `json:"email"`
	Token    string    `json:"token"`
	ExpiraEn time.Time `json:"expira_en"`
	Enviado  bool      `json:"-"`
}

// VerificarEmailRequest solicitud para confirmar el correo
type VerificarEmailRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Token  string `json:"token" validate:"required"`
	Codigo string `json:"codigo" validate:"required,len=6,numeric"`
}

// ReenviarCodigoRequest solicitud de un código nuevo
type ReenviarCodigoRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginRequest representa la solicitud de login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfa_code,omitempty"`
}

// LoginResponse token de acceso y datos del usuario
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int      `json:"expires_in"` // segundos
	Usuario     *Usuario `json:"usuario"`
}

// ActualizarPerfilRequest campos editables del perfil
type ActualizarPerfilRequest struct {
	Nombre       string `json:"nombre" validate:"required,max=100"`
	Apellido     string `json:"apellido" validate:"required,max=100"`
	Telefono     string `json:"telefono" validate:"max=30"`
	Especialidad string `json:"especialidad" validate:"max=100"`
}

type MFASetupResponse struct {
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qr_code_url"`
}

type MFACodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}
