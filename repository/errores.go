package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lizet96/mediconnect-backend/database"
)

var (
	ErrNoEncontrado       = errors.New("registro no encontrado")
	ErrDuplicado          = errors.New("registro duplicado")
	ErrReferenciaInvalida = errors.New("referencia a un registro inexistente")
)

// Códigos SQLSTATE de PostgreSQL
const (
	codigoUniqueViolation     = "23505"
	codigoForeignKeyViolation = "23503"
)

// traducirError convierte errores de pgx/PostgreSQL en errores del repositorio
func traducirError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoEncontrado
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codigoUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicado, pgErr.ConstraintName)
		case codigoForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrReferenciaInvalida, pgErr.ConstraintName)
		}
	}
	return err
}

// nullSiVacio guarda NULL en lugar de cadenas vacías
func nullSiVacio(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullSiCero(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// filaAfectada exige que una sentencia de escritura haya tocado al menos una fila
func filaAfectada(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return traducirError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoEncontrado
	}
	return nil
}

// enTransaccion ejecuta fn dentro de una transacción: commit si fn termina
// bien, rollback si devuelve error o entra en pánico
func enTransaccion(ctx context.Context, db database.DBTX, fn func(pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error al iniciar transacción: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error al confirmar transacción: %w", err)
	}
	return nil
}
