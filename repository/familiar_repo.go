package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lizet96/mediconnect-backend/database"
	"github.com/lizet96/mediconnect-backend/models"
)

const columnasFamiliar = "f.id, f.paciente_id, f.familiar_id, f.parentesco, f.puede_agendar, f.puede_ver_historial, f.created_at"

// FamiliarRepo acceso a la tabla familiares
type FamiliarRepo struct {
	db database.DBTX
}

func NewFamiliarRepo(db database.DBTX) *FamiliarRepo {
	return &FamiliarRepo{db: db}
}

func scanFamiliar(row pgx.Row) (*models.Familiar, error) {
	var f models.Familiar
	err := row.Scan(&f.ID, &f.PacienteID, &f.FamiliarID, &f.Parentesco,
		&f.PuedeAgendar, &f.PuedeVerHistorial, &f.CreatedAt)
	if err != nil {
		return nil, traducirError(err)
	}
	return &f, nil
}

func (r *FamiliarRepo) Crear(ctx context.Context, f *models.Familiar) error {
	query := `INSERT INTO familiares (paciente_id, familiar_id, parentesco, puede_agendar, puede_ver_historial)
			  VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		f.PacienteID, f.FamiliarID, f.Parentesco, f.PuedeAgendar, f.PuedeVerHistorial,
	).Scan(&f.ID, &f.CreatedAt)
	return traducirError(err)
}

func (r *FamiliarRepo) ObtenerPorID(ctx context.Context, id int64) (*models.Familiar, error) {
	return scanFamiliar(r.db.QueryRow(ctx,
		"SELECT "+columnasFamiliar+" FROM familiares f WHERE f.id = $1", id))
}

// Buscar la delegación entre un paciente y un familiar concreto
func (r *FamiliarRepo) Buscar(ctx context.Context, pacienteID, familiarID int64) (*models.Familiar, error) {
	return scanFamiliar(r.db.QueryRow(ctx,
		"SELECT "+columnasFamiliar+" FROM familiares f WHERE f.paciente_id = $1 AND f.familiar_id = $2",
		pacienteID, familiarID))
}

// ListarPorPaciente delegaciones que concedió el paciente, con datos del familiar
func (r *FamiliarRepo) ListarPorPaciente(ctx context.Context, pacienteID int64) ([]models.FamiliarDetalle, error) {
	return r.listar(ctx, `SELECT `+columnasFamiliar+`, u.nombre || ' ' || u.apellido, u.email
		FROM familiares f JOIN usuarios u ON u.id = f.familiar_id
		WHERE f.paciente_id = $1 ORDER BY f.created_at`, pacienteID)
}

// ListarPorFamiliar pacientes que delegaron en el usuario, con datos del paciente
func (r *FamiliarRepo) ListarPorFamiliar(ctx context.Context, familiarID int64) ([]models.FamiliarDetalle, error) {
	return r.listar(ctx, `SELECT `+columnasFamiliar+`, u.nombre || ' ' || u.apellido, u.email
		FROM familiares f JOIN usuarios u ON u.id = f.paciente_id
		WHERE f.familiar_id = $1 AND u.activo = TRUE ORDER BY f.created_at`, familiarID)
}

func (r *FamiliarRepo) listar(ctx context.Context, query string, id int64) ([]models.FamiliarDetalle, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, traducirError(err)
	}
	defer rows.Close()

	familiares := []models.FamiliarDetalle{}
	for rows.Next() {
		var f models.FamiliarDetalle
		if err := rows.Scan(&f.ID, &f.PacienteID, &f.FamiliarID, &f.Parentesco,
			&f.PuedeAgendar, &f.PuedeVerHistorial, &f.CreatedAt, &f.Nombre, &f.Email); err != nil {
			return nil, traducirError(err)
		}
		familiares = append(familiares, f)
	}
	return familiares, traducirError(rows.Err())
}

// ActualizarPermisos solo afecta delegaciones del paciente indicado
func (r *FamiliarRepo) ActualizarPermisos(ctx context.Context, id, pacienteID int64, req models.PermisosFamiliarRequest) error {
	return filaAfectada(r.db.Exec(ctx,
		"UPDATE familiares SET puede_agendar = $1, puede_ver_historial = $2 WHERE id = $3 AND paciente_id = $4",
		req.PuedeAgendar, req.PuedeVerHistorial, id, pacienteID))
}

func (r *FamiliarRepo) Eliminar(ctx context.Context, id, pacienteID int64) error {
	return filaAfectada(r.db.Exec(ctx,
		"DELETE FROM familiares WHERE id = $1 AND paciente_id = $2", id, pacienteID))
}
