package database

import (
	"context"
	"fmt"
)

// Las políticas de borrado son parte del contrato: los datos del paciente y
// sus delegaciones siguen al usuario, mientras que citas, pagos y recetas
// bloquean el borrado físico (la aplicación solo desactiva usuarios).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS usuarios (
		id BIGSERIAL PRIMARY KEY,
		nombre VARCHAR(100) NOT NULL,
		apellido VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		rol VARCHAR(20) NOT NULL CHECK (rol IN ('doctor', 'paciente')),
		telefono VARCHAR(30),
		cedula_profesional VARCHAR(50),
		especialidad VARCHAR(100),
		activo BOOLEAN NOT NULL DEFAULT TRUE,
		mfa_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		mfa_secret TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS pacientes (
		id BIGSERIAL PRIMARY KEY,
		usuario_id BIGINT NOT NULL UNIQUE REFERENCES usuarios(id) ON DELETE CASCADE,
		tipo_sangre VARCHAR(5),
		alergias TEXT,
		enfermedades_cronicas TEXT,
		contacto_emergencia VARCHAR(150),
		telefono_emergencia VARCHAR(30),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS citas (
		id BIGSERIAL PRIMARY KEY,
		paciente_id BIGINT NOT NULL REFERENCES usuarios(id) ON DELETE RESTRICT,
		doctor_id BIGINT NOT NULL REFERENCES usuarios(id) ON DELETE RESTRICT,
		creada_por BIGINT NOT NULL REFERENCES usuarios(id) ON DELETE RESTRICT,
		fecha DATE NOT NULL,
		hora VARCHAR(5) NOT NULL,
		motivo TEXT NOT NULL DEFAULT '',
		estado VARCHAR(20) NOT NULL DEFAULT 'pendiente'
			CHECK (estado IN ('pendiente', 'confirmada', 'en_progreso', 'completado', 'cancelado')),
		modalidad VARCHAR(10) NOT NULL DEFAULT 'chat' CHECK (modalidad IN ('chat', 'video')),
		sala_video VARCHAR(100),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS recetas (
		id BIGSERIAL PRIMARY KEY,
		cita_id BIGINT NOT NULL REFERENCES citas(id) ON DELETE RESTRICT,
		medicamentos JSONB NOT NULL DEFAULT '[]',
		indicaciones TEXT NOT NULL DEFAULT '',
		foto_url TEXT,
		firma_digital TEXT,
		autenticada BOOLEAN NOT NULL DEFAULT FALSE,
		autenticada_en TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS pagos (
		id BIGSERIAL PRIMARY KEY,
		paciente_id BIGINT NOT NULL REFERENCES usuarios(id) ON DELETE RESTRICT,
		doctor_id BIGINT NOT NULL REFERENCES usuarios(id) ON DELETE RESTRICT,
		cita_id BIGINT REFERENCES citas(id) ON DELETE RESTRICT,
		monto NUMERIC(10, 2) NOT NULL CHECK (monto > 0),
		metodo VARCHAR(20) NOT NULL CHECK (metodo IN ('tarjeta', 'transferencia', 'efectivo')),
		referencia VARCHAR(100) NOT NULL,
		estado VARCHAR(20) NOT NULL DEFAULT 'pendiente'
			CHECK (estado IN ('pendiente', 'completado', 'fallido')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS familiares (
		id BIGSERIAL PRIMARY KEY,
		paciente_id BIGINT NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		familiar_id BIGINT NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		parentesco VARCHAR(50) NOT NULL,
		puede_agendar BOOLEAN NOT NULL DEFAULT FALSE,
		puede_ver_historial BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (paciente_id, familiar_id)
	)`,
	`CREATE TABLE IF NOT EXISTS verificaciones_pendientes (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		token VARCHAR(64) NOT NULL UNIQUE,
		codigo CHAR(6) NOT NULL,
		nombre VARCHAR(100) NOT NULL,
		apellido VARCHAR(100) NOT NULL,
		password_hash TEXT NOT NULL,
		rol VARCHAR(20) NOT NULL,
		telefono VARCHAR(30),
		cedula_profesional VARCHAR(50),
		especialidad VARCHAR(100),
		expira_en TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id_log BIGSERIAL PRIMARY KEY,
		method VARCHAR(10) NOT NULL,
		path VARCHAR(500) NOT NULL,
		status_code INT NOT NULL,
		response_time INT,
		user_agent TEXT,
		ip VARCHAR(45) NOT NULL,
		body TEXT,
		params TEXT,
		query TEXT,
		user_id BIGINT,
		role VARCHAR(20),
		log_level VARCHAR(10) NOT NULL,
		environment VARCHAR(20) NOT NULL,
		pid INT,
		url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_citas_paciente ON citas(paciente_id)`,
	`CREATE INDEX IF NOT EXISTS idx_citas_doctor ON citas(doctor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_recetas_cita ON recetas(cita_id)`,
	`CREATE INDEX IF NOT EXISTS idx_verificaciones_email ON verificaciones_pendientes(email)`,
}

// Statements devuelve una copia de las sentencias DDL en orden de aplicación
func Statements() []string {
	out := make([]string, len(schema))
	copy(out, schema)
	return out
}

// Migrar crea las tablas que falten. Es idempotente.
func Migrar(ctx context.Context, db DBTX) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("error aplicando sentencia %d del esquema: %w", i, err)
		}
	}
	return nil
}
