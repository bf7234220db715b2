package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lizet96/mediconnect-backend/database"
	"github.com/lizet96/mediconnect-backend/models"
)

const selectReceta = `SELECT id, cita_id, medicamentos::text, indicaciones, COALESCE(foto_url, ''),
		COALESCE(firma_digital, ''), autenticada, autenticada_en, created_at, updated_at
	FROM recetas`

// RecetaRepo acceso a la tabla recetas
type RecetaRepo struct {
	db database.DBTX
}

func NewRecetaRepo(db database.DBTX) *RecetaRepo {
	return &RecetaRepo{db: db}
}

func scanReceta(row pgx.Row) (*models.Receta, error) {
	var r models.Receta
	var medicamentos string
	err := row.Scan(&r.ID, &r.CitaID, &medicamentos, &r.Indicaciones, &r.FotoURL,
		&r.FirmaDigital, &r.Autenticada, &r.AutenticadaEn, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, traducirError(err)
	}
	if err := json.Unmarshal([]byte(medicamentos), &r.Medicamentos); err != nil {
		return nil, fmt.Errorf("medicamentos corruptos en receta %d: %w", r.ID, err)
	}
	return &r, nil
}

func codificarMedicamentos(m []models.Medicamento) (string, error) {
	if m == nil {
		m = []models.Medicamento{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("error al codificar medicamentos: %w", err)
	}
	return string(b), nil
}

func (r *RecetaRepo) Crear(ctx context.Context, receta *models.Receta) error {
	medicamentos, err := codificarMedicamentos(receta.Medicamentos)
	if err != nil {
		return err
	}

	query := `INSERT INTO recetas (cita_id, medicamentos, indicaciones, foto_url)
			  VALUES ($1, $2::jsonb, $3, $4) RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		receta.CitaID, medicamentos, receta.Indicaciones, nullSiVacio(receta.FotoURL),
	).Scan(&receta.ID, &receta.CreatedAt, &receta.UpdatedAt)
	return traducirError(err)
}

func (r *RecetaRepo) ObtenerPorID(ctx context.Context, id int64) (*models.Receta, error) {
	return scanReceta(r.db.QueryRow(ctx, selectReceta+" WHERE id = $1", id))
}

func (r *RecetaRepo) ListarPorCita(ctx context.Context, citaID int64) ([]models.Receta, error) {
	rows, err := r.db.Query(ctx, selectReceta+" WHERE cita_id = $1 ORDER BY created_at DESC", citaID)
	if err != nil {
		return nil, traducirError(err)
	}
	defer rows.Close()

	recetas := []models.Receta{}
	for rows.Next() {
		receta, err := scanReceta(rows)
		if err != nil {
			return nil, err
		}
		recetas = append(recetas, *receta)
	}
	return recetas, traducirError(rows.Err())
}

// Actualizar solo modifica recetas que aún no están autenticadas
func (r *RecetaRepo) Actualizar(ctx context.Context, receta *models.Receta) error {
	medicamentos, err := codificarMedicamentos(receta.Medicamentos)
	if err != nil {
		return err
	}
	return filaAfectada(r.db.Exec(ctx,
		`UPDATE recetas SET medicamentos = $1::jsonb, indicaciones = $2, foto_url = $3, updated_at = NOW()
		 WHERE id = $4 AND autenticada = FALSE`,
		medicamentos, receta.Indicaciones, nullSiVacio(receta.FotoURL), receta.ID))
}

// Autenticar firma la receta; a partir de aquí es inmutable
func (r *RecetaRepo) Autenticar(ctx context.Context, id int64, firma string) (time.Time, error) {
	var en time.Time
	err := r.db.QueryRow(ctx,
		`UPDATE recetas SET firma_digital = $1, autenticada = TRUE, autenticada_en = NOW(), updated_at = NOW()
		 WHERE id = $2 AND autenticada = FALSE RETURNING autenticada_en`,
		firma, id).Scan(&en)
	return en, traducirError(err)
}
