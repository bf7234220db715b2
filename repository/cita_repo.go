package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lizet96/mediconnect-backend/database"
	"github.com/lizet96/mediconnect-backend/models"
)

const selectCita = `SELECT c.id, c.paciente_id, c.doctor_id, c.creada_por, c.fecha, c.hora, c.motivo,
		c.estado, c.modalidad, COALESCE(c.sala_video, ''), c.created_at, c.updated_at,
		p.nombre || ' ' || p.apellido, d.nombre || ' ' || d.apellido
	FROM citas c
	JOIN usuarios p ON c.paciente_id = p.id
	JOIN usuarios d ON c.doctor_id = d.id`

// CitaRepo acceso a la tabla citas
type CitaRepo struct {
	db database.DBTX
}

func NewCitaRepo(db database.DBTX) *CitaRepo {
	return &CitaRepo{db: db}
}

func scanCita(row pgx.Row) (*models.CitaDetalle, error) {
	var c models.CitaDetalle
	var estado, modalidad string
	err := row.Scan(&c.ID, &c.PacienteID, &c.DoctorID, &c.CreadaPor, &c.Fecha, &c.Hora, &c.Motivo,
		&estado, &modalidad, &c.SalaVideo, &c.CreatedAt, &c.UpdatedAt,
		&c.PacienteNombre, &c.DoctorNombre)
	if err != nil {
		return nil, traducirError(err)
	}
	if c.Estado, err = models.ParseEstadoCita(estado); err != nil {
		return nil, err
	}
	if c.Modalidad, err = models.ParseModalidad(modalidad); err != nil {
		return nil, err
	}
	return &c, nil
}

// Crear inserta la cita; estado y timestamps los asigna la base
func (r *CitaRepo) Crear(ctx context.Context, c *models.Cita) error {
	query := `INSERT INTO citas (paciente_id, doctor_id, creada_por, fecha, hora, motivo, estado, modalidad)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		c.PacienteID, c.DoctorID, c.CreadaPor, c.Fecha, c.Hora, c.Motivo, string(c.Estado), string(c.Modalidad),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return traducirError(err)
}

func (r *CitaRepo) ObtenerPorID(ctx context.Context, id int64) (*models.CitaDetalle, error) {
	return scanCita(r.db.QueryRow(ctx, selectCita+" WHERE c.id = $1", id))
}

func (r *CitaRepo) ListarPorPaciente(ctx context.Context, pacienteID int64) ([]models.CitaDetalle, error) {
	return r.listar(ctx, selectCita+" WHERE c.paciente_id = $1 ORDER BY c.fecha DESC, c.hora DESC", pacienteID)
}

func (r *CitaRepo) ListarPorDoctor(ctx context.Context, doctorID int64) ([]models.CitaDetalle, error) {
	return r.listar(ctx, selectCita+" WHERE c.doctor_id = $1 ORDER BY c.fecha DESC, c.hora DESC", doctorID)
}

func (r *CitaRepo) listar(ctx context.Context, query string, args ...any) ([]models.CitaDetalle, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, traducirError(err)
	}
	defer rows.Close()

	citas := []models.CitaDetalle{}
	for rows.Next() {
		c, err := scanCita(rows)
		if err != nil {
			return nil, err
		}
		citas = append(citas, *c)
	}
	return citas, traducirError(rows.Err())
}

// ActualizarEstado cambia el estado solo si la cita sigue en el estado leído.
// Una sala vacía conserva la que ya estuviera guardada.
func (r *CitaRepo) ActualizarEstado(ctx context.Context, id int64, desde, hacia models.EstadoCita, sala string) error {
	return filaAfectada(r.db.Exec(ctx,
		`UPDATE citas SET estado = $1, sala_video = COALESCE($2, sala_video), updated_at = NOW()
		 WHERE id = $3 AND estado = $4`,
		string(hacia), nullSiVacio(sala), id, string(desde)))
}
