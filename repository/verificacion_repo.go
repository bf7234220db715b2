package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lizet96/mediconnect-backend/database"
	"github.com/lizet96/mediconnect-backend/models"
)

const selectVerificacion = `SELECT id, email, token, codigo, nombre, apellido, password_hash, rol,
		COALESCE(telefono, ''), COALESCE(cedula_profesional, ''), COALESCE(especialidad, ''),
		expira_en, created_at
	FROM verificaciones_pendientes`

// VerificacionRepo registros pendientes de confirmar por correo
type VerificacionRepo struct {
	db database.DBTX
}

func NewVerificacionRepo(db database.DBTX) *VerificacionRepo {
	return &VerificacionRepo{db: db}
}

func scanVerificacion(row pgx.Row) (*models.VerificacionPendiente, error) {
	var v models.VerificacionPendiente
	var rol string
	err := row.Scan(&v.ID, &v.Email, &v.Token, &v.Codigo, &v.Nombre, &v.Apellido, &v.PasswordHash, &rol,
		&v.Telefono, &v.CedulaProfesional, &v.Especialidad, &v.ExpiraEn, &v.CreatedAt)
	if err != nil {
		return nil, traducirError(err)
	}
	if v.Rol, err = models.ParseRol(rol); err != nil {
		return nil, err
	}
	return &v, nil
}

// Reemplazar descarta los pendientes anteriores del mismo correo y guarda el nuevo
func (r *VerificacionRepo) Reemplazar(ctx context.Context, v *models.VerificacionPendiente) error {
	v.Email = strings.ToLower(v.Email)
	return enTransaccion(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"DELETE FROM verificaciones_pendientes WHERE LOWER(email) = $1", v.Email); err != nil {
			return traducirError(err)
		}

		query := `INSERT INTO verificaciones_pendientes
				(email, token, codigo, nombre, apellido, password_hash, rol, telefono, cedula_profesional, especialidad, expira_en)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id, created_at`

		err := tx.QueryRow(ctx, query,
			v.Email, v.Token, v.Codigo, v.Nombre, v.Apellido, v.PasswordHash, string(v.Rol),
			nullSiVacio(v.Telefono), nullSiVacio(v.CedulaProfesional), nullSiVacio(v.Especialidad), v.ExpiraEn,
		).Scan(&v.ID, &v.CreatedAt)
		return traducirError(err)
	})
}

func (r *VerificacionRepo) ObtenerPorToken(ctx context.Context, token string) (*models.VerificacionPendiente, error) {
	return scanVerificacion(r.db.QueryRow(ctx, selectVerificacion+" WHERE token = $1", token))
}

// ObtenerUltimaPorEmail pendiente más reciente del correo
func (r *VerificacionRepo) ObtenerUltimaPorEmail(ctx context.Context, email string) (*models.VerificacionPendiente, error) {
	return scanVerificacion(r.db.QueryRow(ctx,
		selectVerificacion+" WHERE LOWER(email) = LOWER($1) ORDER BY created_at DESC LIMIT 1", email))
}

// ActualizarCodigo reemite token y código de un pendiente existente
func (r *VerificacionRepo) ActualizarCodigo(ctx context.Context, id int64, token, codigo string, expiraEn time.Time) error {
	return filaAfectada(r.db.Exec(ctx,
		"UPDATE verificaciones_pendientes SET token = $1, codigo = $2, expira_en = $3 WHERE id = $4",
		token, codigo, expiraEn, id))
}

// Promover crea el usuario definitivo (y su expediente si es paciente) y
// elimina el pendiente, todo en una sola transacción
func (r *VerificacionRepo) Promover(ctx context.Context, v *models.VerificacionPendiente) (*models.Usuario, error) {
	usuario := v.ComoUsuario()
	err := enTransaccion(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertarUsuario(ctx, tx, usuario); err != nil {
			return err
		}
		if usuario.Rol.EsPaciente() {
			if err := insertarPaciente(ctx, tx, usuario.ID); err != nil {
				return err
			}
		}
		return filaAfectada(tx.Exec(ctx, "DELETE FROM verificaciones_pendientes WHERE id = $1", v.ID))
	})
	if err != nil {
		return nil, err
	}
	return usuario, nil
}
