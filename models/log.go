package models

import (
	"time"
)

// Log fila de la tabla logs escrita por el middleware de peticiones
type Log struct {
	IDLog        int64     `json:"id_log" db:"id_log"`
	Method       string    `json:"method" db:"method"`
	Path         string    `json:"path" db:"path"`
	StatusCode   int       `json:"status_code" db:"status_code"`
	ResponseTime *int      `json:"response_time" db:"response_time"`
	UserAgent    *string   `json:"user_agent" db:"user_agent"`
	IP           string    `json:"ip" db:"ip"`
	Body         *string   `json:"body" db:"body"`
	Params       *string   `json:"params" db:"params"`
	Query        *string   `json:"query" db:"query"`
	UserID       *int64    `json:"user_id" db:"user_id"`
	Role         *string   `json:"role" db:"role"`
	LogLevel     string    `json:"log_level" db:"log_level"`
	Environment  string    `json:"environment" db:"environment"`
	PID          *int      `json:"pid" db:"pid"`
	URL          *string   `json:"url" db:"url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Constantes para niveles de log
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
	LogLevelDebug   = "debug"
	LogLevelSuccess = "success"
)

// Constantes para ambientes
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTesting     = "testing"
)
