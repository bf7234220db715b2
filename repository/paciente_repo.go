package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lizet96/mediconnect-backend/database"
	"github.com/lizet96/mediconnect-backend/models"
)

const selectPaciente = `SELECT p.id, p.usuario_id, COALESCE(p.tipo_sangre, ''), COALESCE(p.alergias, ''),
		COALESCE(p.enfermedades_cronicas, ''), COALESCE(p.contacto_emergencia, ''),
		COALESCE(p.telefono_emergencia, ''), p.created_at, p.updated_at,
		u.nombre, u.apellido, u.email, COALESCE(u.telefono, '')
	FROM pacientes p
	JOIN usuarios u ON u.id = p.usuario_id`

// PacienteRepo acceso a la tabla pacientes
type PacienteRepo struct {
	db database.DBTX
}

func NewPacienteRepo(db database.DBTX) *PacienteRepo {
	return &PacienteRepo{db: db}
}

func scanPaciente(row pgx.Row) (*models.PacienteDetalle, error) {
	var p models.PacienteDetalle
	err := row.Scan(&p.ID, &p.UsuarioID, &p.TipoSangre, &p.Alergias,
		&p.EnfermedadesCronicas, &p.ContactoEmergencia, &p.TelefonoEmergencia,
		&p.CreatedAt, &p.UpdatedAt, &p.Nombre, &p.Apellido, &p.Email, &p.Telefono)
	if err != nil {
		return nil, traducirError(err)
	}
	return &p, nil
}

func insertarPaciente(ctx context.Context, db database.DBTX, usuarioID int64) error {
	_, err := db.Exec(ctx, "INSERT INTO pacientes (usuario_id) VALUES ($1)", usuarioID)
	return traducirError(err)
}

// ObtenerPorUsuario expediente del paciente a partir del id de usuario
func (r *PacienteRepo) ObtenerPorUsuario(ctx context.Context, usuarioID int64) (*models.PacienteDetalle, error) {
	return scanPaciente(r.db.QueryRow(ctx, selectPaciente+" WHERE p.usuario_id = $1", usuarioID))
}

// Listar pacientes con usuario activo
func (r *PacienteRepo) Listar(ctx context.Context) ([]models.PacienteDetalle, error) {
	rows, err := r.db.Query(ctx, selectPaciente+" WHERE u.activo = TRUE ORDER BY u.apellido, u.nombre")
	if err != nil {
		return nil, traducirError(err)
	}
	defer rows.Close()

	pacientes := []models.PacienteDetalle{}
	for rows.Next() {
		p, err := scanPaciente(rows)
		if err != nil {
			return nil, err
		}
		pacientes = append(pacientes, *p)
	}
	return pacientes, traducirError(rows.Err())
}

// Actualizar datos médicos del paciente
func (r *PacienteRepo) Actualizar(ctx context.Context, usuarioID int64, req models.ExpedienteRequest) error {
	return filaAfectada(r.db.Exec(ctx,
		`UPDATE pacientes SET tipo_sangre = $1, alergias = $2, enfermedades_cronicas = $3,
			contacto_emergencia = $4, telefono_emergencia = $5, updated_at = NOW()
		 WHERE usuario_id = $6`,
		nullSiVacio(req.TipoSangre), nullSiVacio(req.Alergias), nullSiVacio(req.EnfermedadesCronicas),
		nullSiVacio(req.ContactoEmergencia), nullSiVacio(req.TelefonoEmergencia), usuarioID))
}
