package services

import (
	"context"
	"strings"
	"testing"

	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/lizet96/mediconnect-backend/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupPagoService() (*PagoService, *MockPagoRepository, *MockCitaRepository, *MockMailer) {
	pagos := &MockPagoRepository{}
	usuarios := &MockUsuarioRepository{}
	citas := &MockCitaRepository{}
	mailer := &MockMailer{}
	usuarios.On("ObtenerPorID", mock.Anything, int64(10)).Return(pacienteLuis, nil)
	usuarios.On("ObtenerPorID", mock.Anything, int64(20)).Return(doctoraAna, nil)
	usuarios.On("ObtenerPorID", mock.Anything, int64(99)).Return(nil, repository.ErrNoEncontrado)
	return NewPagoService(pagos, usuarios, citas, mailer, nil, logger.Discard()), pagos, citas, mailer
}

func pagoPendiente() *models.Pago {
	return &models.Pago{ID: 7, PacienteID: 10, DoctorID: 20, Monto: 450.5, Metodo: "tarjeta", Referencia: "PAG-1", Estado: models.PagoPendiente}
}

func TestCrearPago_GeneraReferencia(t *testing.T) {
	s, pagos, _, _ := setupPagoService()
	pagos.On("Crear", mock.Anything, mock.AnythingOfType("*models.Pago")).Return(nil)

	pago, err := s.Crear(context.Background(), actorLuis, models.PagoRequest{DoctorID: 20, Monto: 450.5, Metodo: "tarjeta"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(pago.Referencia, "PAG-"))
	assert.Len(t, pago.Referencia, 16)
	assert.Equal(t, models.PagoPendiente, pago.Estado)
	assert.Equal(t, int64(10), pago.PacienteID)
}

func TestCrearPago_Validaciones(t *testing.T) {
	s, pagos, citas, _ := setupPagoService()
	citas.On("ObtenerPorID", mock.Anything, int64(1)).Return(citaEn(models.EstadoCompletado, models.ModalidadChat), nil)

	_, err := s.Crear(context.Background(), actorAna, models.PagoRequest{DoctorID: 20, Monto: 10, Metodo: "efectivo"})
	assert.Equal(t, ErrProhibido, TipoDe(err))

	_, err = s.Crear(context.Background(), actorLuis, models.PagoRequest{DoctorID: 99, Monto: 10, Metodo: "efectivo"})
	assert.Equal(t, ErrValidacion, TipoDe(err))

	// el doctor debe tener rol doctor
	_, err = s.Crear(context.Background(), actorLuis, models.PagoRequest{DoctorID: 10, Monto: 10, Metodo: "efectivo"})
	assert.Equal(t, ErrValidacion, TipoDe(err))

	otro := Actor{ID: 11, Rol: models.RolPaciente}
	_, err = s.Crear(context.Background(), otro, models.PagoRequest{DoctorID: 20, CitaID: 1, Monto: 10, Metodo: "efectivo"})
	assert.Equal(t, ErrValidacion, TipoDe(err))

	pagos.AssertNotCalled(t, "Crear", mock.Anything, mock.Anything)
}

func TestCrearPago_ConReferenciaYCita(t *testing.T) {
	s, pagos, citas, _ := setupPagoService()
	citas.On("ObtenerPorID", mock.Anything, int64(1)).Return(citaEn(models.EstadoCompletado, models.ModalidadChat), nil)
	pagos.On("Crear", mock.Anything, mock.Anything).Return(nil)

	pago, err := s.Crear(context.Background(), actorLuis, models.PagoRequest{DoctorID: 20, CitaID: 1, Monto: 300, Metodo: "transferencia", Referencia: " SPEI-123 "})
	require.NoError(t, err)
	assert.Equal(t, "SPEI-123", pago.Referencia)
	assert.Equal(t, int64(1), pago.CitaID)
}

func TestCambiarEstadoPago_CompletadoEnviaRecibo(t *testing.T) {
	s, pagos, _, mailer := setupPagoService()
	pagos.On("ObtenerPorID", mock.Anything, int64(7)).Return(pagoPendiente(), nil)
	pagos.On("ActualizarEstado", mock.Anything, int64(7), models.PagoPendiente, models.PagoCompletado).Return(nil)
	mailer.On("Enviar", mock.Anything, "luis@mail.com", mock.Anything, mock.MatchedBy(func(html string) bool {
		return strings.Contains(html, "$450.50")
	})).Return(true)

	pago, err := s.CambiarEstado(context.Background(), actorAna, 7, "completado")
	require.NoError(t, err)
	assert.Equal(t, models.PagoCompletado, pago.Estado)
	mailer.AssertExpectations(t)
}

func TestCambiarEstadoPago_FallidoSinRecibo(t *testing.T) {
	s, pagos, _, mailer := setupPagoService()
	pagos.On("ObtenerPorID", mock.Anything, int64(7)).Return(pagoPendiente(), nil)
	pagos.On("ActualizarEstado", mock.Anything, int64(7), models.PagoPendiente, models.PagoFallido).Return(nil)

	pago, err := s.CambiarEstado(context.Background(), actorLuis, 7, "fallido")
	require.NoError(t, err)
	assert.Equal(t, models.PagoFallido, pago.Estado)
	mailer.AssertNotCalled(t, "Enviar", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCambiarEstadoPago_Rechazos(t *testing.T) {
	s, pagos, _, _ := setupPagoService()
	procesado := pagoPendiente()
	procesado.ID = 8
	procesado.Estado = models.PagoCompletado
	pagos.On("ObtenerPorID", mock.Anything, int64(7)).Return(pagoPendiente(), nil)
	pagos.On("ObtenerPorID", mock.Anything, int64(8)).Return(procesado, nil)
	pagos.On("ActualizarEstado", mock.Anything, int64(7), models.PagoPendiente, models.PagoCompletado).Return(repository.ErrNoEncontrado)

	_, err := s.CambiarEstado(context.Background(), actorAna, 7, "pendiente")
	assert.Equal(t, ErrValidacion, TipoDe(err))

	_, err = s.CambiarEstado(context.Background(), Actor{ID: 50, Rol: models.RolDoctor}, 7, "completado")
	assert.Equal(t, ErrProhibido, TipoDe(err))

	_, err = s.CambiarEstado(context.Background(), actorAna, 8, "fallido")
	assert.Equal(t, ErrConflicto, TipoDe(err))

	_, err = s.CambiarEstado(context.Background(), actorAna, 7, "completado")
	assert.Equal(t, ErrConflicto, TipoDe(err))
}

func TestCambiarEstadoPago_FalloDeReciboNoRevierte(t *testing.T) {
	s, pagos, _, mailer := setupPagoService()
	pagos.On("ObtenerPorID", mock.Anything, int64(7)).Return(pagoPendiente(), nil)
	pagos.On("ActualizarEstado", mock.Anything, int64(7), models.PagoPendiente, models.PagoCompletado).Return(nil)
	mailer.On("Enviar", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false)

	pago, err := s.CambiarEstado(context.Background(), actorAna, 7, "completado")
	require.NoError(t, err)
	assert.Equal(t, models.PagoCompletado, pago.Estado)
}
