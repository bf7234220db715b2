package models

import "time"

// VerificacionPendiente registro previo al alta definitiva del usuario
type VerificacionPendiente struct {
	ID                int64     `db:"id"`
	Email             string    `db:"email"`
	Token             string    `db:"token"`
	Codigo            string    `db:"codigo"`
	Nombre            string    `db:"nombre"`
	Apellido          string    `db:"apellido"`
	PasswordHash      string    `db:"password_hash"`
	Rol               Rol       `db:"rol"`
	Telefono          string    `db:"telefono"`
	CedulaProfesional string    `db:"cedula_profesional"`
	Especialidad      string    `db:"especialidad"`
	ExpiraEn          time.Time `db:"expira_en"`
	CreatedAt         time.Time `db:"created_at"`
}

// Expirada indica si la verificación ya no es válida en el instante dado
func (v *VerificacionPendiente) Expirada(ahora time.Time) bool {
	return !ahora.Before(v.ExpiraEn)
}

// ComoUsuario datos que se copian a la tabla usuarios al verificar
func (v *VerificacionPendiente) ComoUsuario() *Usuario {
	return &Usuario{
		Nombre:            v.Nombre,
		Apellido:          v.Apellido,
		Email:             v.Email,
		PasswordHash:      v.PasswordHash,
		Rol:               v.Rol,
		Telefono:          v.Telefono,
		CedulaProfesional: v.CedulaProfesional,
		Especialidad:      v.Especialidad,
		Activo:            true,
	}
}
