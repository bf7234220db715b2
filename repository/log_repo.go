package repository

import (
	"context"

	"github.com/lizet96/mediconnect-backend/database"
	"github.com/lizet96/mediconnect-backend/models"
)

// LogRepo persistencia de la bitácora HTTP
type LogRepo struct {
	db database.DBTX
}

func NewLogRepo(db database.DBTX) *LogRepo {
	return &LogRepo{db: db}
}

func (r *LogRepo) Guardar(ctx context.Context, l *models.Log) error {
	query := `INSERT INTO logs (method, path, status_code, response_time, user_agent, ip,
				body, params, query, user_id, role, log_level, environment, pid, url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		l.Method, l.Path, l.StatusCode, l.ResponseTime, l.UserAgent, l.IP,
		l.Body, l.Params, l.Query, l.UserID, l.Role, l.LogLevel, l.Environment, l.PID, l.URL)
	return traducirError(err)
}
