package services

import (
	"errors"
	"fmt"

	"github.com/lizet96/mediconnect-backend/repository"
)

// TipoError categoría de un error de servicio; el handler la traduce a un status HTTP
type TipoError string

const (
	ErrValidacion    TipoError = "validacion"
	ErrNoAutenticado TipoError = "no_autenticado"
	ErrProhibido     TipoError = "prohibido"
	ErrNoEncontrado  TipoError = "no_encontrado"
	ErrConflicto     TipoError = "conflicto"
	ErrInterno       TipoError = "interno"
)

// Error error tipado que devuelven los servicios. Mensaje es seguro para el cliente.
type Error struct {
	Tipo    TipoError
	Mensaje string
	Causa   error
}

func (e *Error) Error() string {
	if e.Causa != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Tipo, e.Mensaje, e.Causa)
	}
	return fmt.Sprintf("%s: %s", e.Tipo, e.Mensaje)
}

func (e *Error) Unwrap() error {
	return e.Causa
}

func nuevoError(tipo TipoError, mensaje string) *Error {
	return &Error{Tipo: tipo, Mensaje: mensaje}
}

func errorInterno(mensaje string, causa error) *Error {
	return &Error{Tipo: ErrInterno, Mensaje: mensaje, Causa: causa}
}

// TipoDe devuelve la categoría de err; interno si no es un *Error
func TipoDe(err error) TipoError {
	var e *Error
	if errors.As(err, &e) {
		return e.Tipo
	}
	return ErrInterno
}

// desdeRepo traduce los errores del repositorio. noEncontrado es el mensaje
// para ErrNoEncontrado; el resto de fallos se reportan como internos.
func desdeRepo(err error, noEncontrado string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNoEncontrado):
		return &Error{Tipo: ErrNoEncontrado, Mensaje: noEncontrado, Causa: err}
	case errors.Is(err, repository.ErrDuplicado):
		return &Error{Tipo: ErrConflicto, Mensaje: "El registro ya existe", Causa: err}
	case errors.Is(err, repository.ErrReferenciaInvalida):
		return &Error{Tipo: ErrValidacion, Mensaje: "Hace referencia a un registro inexistente", Causa: err}
	}
	return errorInterno("Error interno del servidor", err)
}
