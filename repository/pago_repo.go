package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lizet96/mediconnect-backend/database"
	"github.com/lizet96/mediconnect-backend/models"
)

const selectPago = `SELECT id, paciente_id, doctor_id, COALESCE(cita_id, 0), monto::float8, metodo,
		referencia, estado, created_at, updated_at
	FROM pagos`

// PagoRepo acceso a la tabla pagos
type PagoRepo struct {
	db database.DBTX
}

func NewPagoRepo(db database.DBTX) *PagoRepo {
	return &PagoRepo{db: db}
}

func scanPago(row pgx.Row) (*models.Pago, error) {
	var p models.Pago
	var estado string
	err := row.Scan(&p.ID, &p.PacienteID, &p.DoctorID, &p.CitaID, &p.Monto, &p.Metodo,
		&p.Referencia, &estado, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, traducirError(err)
	}
	if p.Estado, err = models.ParseEstadoPago(estado); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PagoRepo) Crear(ctx context.Context, p *models.Pago) error {
	query := `INSERT INTO pagos (paciente_id, doctor_id, cita_id, monto, metodo, referencia, estado)
			  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.PacienteID, p.DoctorID, nullSiCero(p.CitaID), p.Monto, p.Metodo, p.Referencia, string(p.Estado),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return traducirError(err)
}

func (r *PagoRepo) ObtenerPorID(ctx context.Context, id int64) (*models.Pago, error) {
	return scanPago(r.db.QueryRow(ctx, selectPago+" WHERE id = $1", id))
}

// ListarPorUsuario pagos donde el usuario es paciente o doctor
func (r *PagoRepo) ListarPorUsuario(ctx context.Context, usuarioID int64) ([]models.Pago, error) {
	rows, err := r.db.Query(ctx,
		selectPago+" WHERE paciente_id = $1 OR doctor_id = $1 ORDER BY created_at DESC", usuarioID)
	if err != nil {
		return nil, traducirError(err)
	}
	defer rows.Close()

	pagos := []models.Pago{}
	for rows.Next() {
		p, err := scanPago(rows)
		if err != nil {
			return nil, err
		}
		pagos = append(pagos, *p)
	}
	return pagos, traducirError(rows.Err())
}

// ActualizarEstado transición condicionada al estado actual
func (r *PagoRepo) ActualizarEstado(ctx context.Context, id int64, desde, hacia models.EstadoPago) error {
	return filaAfectada(r.db.Exec(ctx,
		"UPDATE pagos SET estado = $1, updated_at = NOW() WHERE id = $2 AND estado = $3",
		string(hacia), id, string(desde)))
}
