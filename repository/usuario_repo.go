package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lizet96/mediconnect-backend/database"
	"github.com/lizet96/mediconnect-backend/models"
)

const columnasUsuario = `id, nombre, apellido, email, password_hash, rol,
	COALESCE(telefono, ''), COALESCE(cedula_profesional, ''), COALESCE(especialidad, ''),
	activo, mfa_enabled, COALESCE(mfa_secret, ''), created_at, updated_at`

// UsuarioRepo acceso a la tabla usuarios
type UsuarioRepo struct {
	db database.DBTX
}

func NewUsuarioRepo(db database.DBTX) *UsuarioRepo {
	return &UsuarioRepo{db: db}
}

func scanUsuario(row pgx.Row) (*models.Usuario, error) {
	var u models.Usuario
	var rol string
	err := row.Scan(&u.ID, &u.Nombre, &u.Apellido, &u.Email, &u.PasswordHash, &rol,
		&u.Telefono, &u.CedulaProfesional, &u.Especialidad,
		&u.Activo, &u.MFAEnabled, &u.MFASecret, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, traducirError(err)
	}
	if u.Rol, err = models.ParseRol(rol); err != nil {
		return nil, err
	}
	return &u, nil
}

// ExisteEmail indica si el correo ya pertenece a un usuario
func (r *UsuarioRepo) ExisteEmail(ctx context.Context, email string) (bool, error) {
	var existe bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM usuarios WHERE LOWER(email) = LOWER($1))", email).Scan(&existe)
	if err != nil {
		return false, traducirError(err)
	}
	return existe, nil
}

// insertarUsuario se usa también dentro de la transacción de verificación
func insertarUsuario(ctx context.Context, db database.DBTX, u *models.Usuario) error {
	query := `INSERT INTO usuarios (nombre, apellido, email, password_hash, rol, telefono, cedula_profesional, especialidad)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, activo, created_at, updated_at`

	err := db.QueryRow(ctx, query,
		u.Nombre, u.Apellido, strings.ToLower(u.Email), u.PasswordHash, string(u.Rol),
		nullSiVacio(u.Telefono), nullSiVacio(u.CedulaProfesional), nullSiVacio(u.Especialidad),
	).Scan(&u.ID, &u.Activo, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return traducirError(err)
	}
	u.Email = strings.ToLower(u.Email)
	return nil
}

func (r *UsuarioRepo) ObtenerPorID(ctx context.Context, id int64) (*models.Usuario, error) {
	return scanUsuario(r.db.QueryRow(ctx,
		"SELECT "+columnasUsuario+" FROM usuarios WHERE id = $1", id))
}

func (r *UsuarioRepo) ObtenerPorEmail(ctx context.Context, email string) (*models.Usuario, error) {
	return scanUsuario(r.db.QueryRow(ctx,
		"SELECT "+columnasUsuario+" FROM usuarios WHERE LOWER(email) = LOWER($1)", email))
}

// EstaActivo false también cuando el usuario no existe
func (r *UsuarioRepo) EstaActivo(ctx context.Context, id int64) (bool, error) {
	var activo bool
	err := r.db.QueryRow(ctx, "SELECT activo FROM usuarios WHERE id = $1", id).Scan(&activo)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return activo, traducirError(err)
}

// Actualizar modifica los campos editables del perfil
func (r *UsuarioRepo) Actualizar(ctx context.Context, id int64, req models.ActualizarPerfilRequest) error {
	return filaAfectada(r.db.Exec(ctx,
		`UPDATE usuarios SET nombre = $1, apellido = $2, telefono = $3, especialidad = $4, updated_at = NOW()
		 WHERE id = $5 AND activo = TRUE`,
		req.Nombre, req.Apellido, nullSiVacio(req.Telefono), nullSiVacio(req.Especialidad), id))
}

// Desactivar baja lógica, las filas dependientes se conservan
func (r *UsuarioRepo) Desactivar(ctx context.Context, id int64) error {
	return filaAfectada(r.db.Exec(ctx,
		"UPDATE usuarios SET activo = FALSE, updated_at = NOW() WHERE id = $1 AND activo = TRUE", id))
}

// ListarDoctores doctores activos, opcionalmente filtrados por especialidad
func (r *UsuarioRepo) ListarDoctores(ctx context.Context, especialidad string) ([]models.Usuario, error) {
	query := "SELECT " + columnasUsuario + " FROM usuarios WHERE rol = $1 AND activo = TRUE"
	args := []any{string(models.RolDoctor)}
	if especialidad != "" {
		// coincidencia literal: % y _ no actúan como comodines
		query += " AND strpos(lower(especialidad), lower($2)) > 0"
		args = append(args, especialidad)
	}
	query += " ORDER BY apellido, nombre"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, traducirError(err)
	}
	defer rows.Close()

	doctores := []models.Usuario{}
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		doctores = append(doctores, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al listar doctores: %w", err)
	}
	return doctores, nil
}

// GuardarMFA persiste el secreto TOTP y si está activo
func (r *UsuarioRepo) GuardarMFA(ctx context.Context, id int64, secret string, enabled bool) error {
	return filaAfectada(r.db.Exec(ctx,
		"UPDATE usuarios SET mfa_secret = $1, mfa_enabled = $2, updated_at = NOW() WHERE id = $3",
		nullSiVacio(secret), enabled, id))
}
