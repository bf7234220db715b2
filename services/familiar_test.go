package services

import (
	"context"
	"testing"

	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/lizet96/mediconnect-backend/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupFamiliarService() (*FamiliarService, *MockFamiliarRepository, *MockUsuarioRepository) {
	familiares := &MockFamiliarRepository{}
	usuarios := &MockUsuarioRepository{}
	return NewFamiliarService(familiares, usuarios, logger.Discard()), familiares, usuarios
}

func TestAgregarFamiliar(t *testing.T) {
	hermana := &models.Usuario{ID: 30, Nombre: "Sofía", Email: "sofia@mail.com", Rol: models.RolPaciente, Activo: true}
	inactivo := &models.Usuario{ID: 31, Email: "baja@mail.com", Rol: models.RolPaciente}

	cases := []struct {
		name    string
		actor   Actor
		email   string
		usuario *models.Usuario
		errRepo error
		crear   error
		tipo    TipoError
	}{
		{name: "doctor no puede", actor: actorAna, email: "sofia@mail.com", tipo: ErrProhibido},
		{name: "correo desconocido", actor: actorLuis, email: "nadie@mail.com", errRepo: repository.ErrNoEncontrado, tipo: ErrNoEncontrado},
		{name: "cuenta desactivada", actor: actorLuis, email: "baja@mail.com", usuario: inactivo, tipo: ErrValidacion},
		{name: "a sí mismo", actor: actorLuis, email: "luis@mail.com", usuario: pacienteLuis, tipo: ErrValidacion},
		{name: "duplicado", actor: actorLuis, email: "sofia@mail.com", usuario: hermana, crear: repository.ErrDuplicado, tipo: ErrConflicto},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, familiares, usuarios := setupFamiliarService()
			usuarios.On("ObtenerPorEmail", mock.Anything, tc.email).Return(tc.usuario, tc.errRepo)
			familiares.On("Crear", mock.Anything, mock.Anything).Return(tc.crear)

			_, err := s.Agregar(context.Background(), tc.actor, models.FamiliarRequest{EmailFamiliar: tc.email, Parentesco: "hermana"})
			assert.Equal(t, tc.tipo, TipoDe(err))
		})
	}
}

func TestAgregarFamiliar_Exito(t *testing.T) {
	s, familiares, usuarios := setupFamiliarService()
	hermana := &models.Usuario{ID: 30, Email: "sofia@mail.com", Rol: models.RolPaciente, Activo: true}
	usuarios.On("ObtenerPorEmail", mock.Anything, "sofia@mail.com").Return(hermana, nil)
	familiares.On("Crear", mock.Anything, mock.AnythingOfType("*models.Familiar")).Return(nil)

	f, err := s.Agregar(context.Background(), actorLuis, models.FamiliarRequest{
		EmailFamiliar: " Sofia@Mail.com ", Parentesco: "hermana", PuedeAgendar: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.PacienteID)
	assert.Equal(t, int64(30), f.FamiliarID)
	assert.True(t, f.PuedeAgendar)
	assert.False(t, f.PuedeVerHistorial)
}

func TestPermisosFamiliar(t *testing.T) {
	s, familiares, _ := setupFamiliarService()
	familiares.On("Buscar", mock.Anything, int64(10), int64(30)).
		Return(&models.Familiar{PacienteID: 10, FamiliarID: 30, PuedeAgendar: true}, nil)
	familiares.On("Buscar", mock.Anything, int64(10), int64(31)).Return(nil, repository.ErrNoEncontrado)

	ok, err := s.PuedeAgendar(context.Background(), 30, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.PuedeVerHistorial(context.Background(), 30, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.PuedeAgendar(context.Background(), 31, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActualizarYEliminarFamiliar(t *testing.T) {
	s, familiares, _ := setupFamiliarService()
	req := models.PermisosFamiliarRequest{PuedeAgendar: true, PuedeVerHistorial: true}
	familiares.On("ActualizarPermisos", mock.Anything, int64(4), int64(10), req).Return(nil)
	familiares.On("ObtenerPorID", mock.Anything, int64(4)).
		Return(&models.Familiar{ID: 4, PacienteID: 10, FamiliarID: 30, PuedeAgendar: true, PuedeVerHistorial: true}, nil)
	familiares.On("Eliminar", mock.Anything, int64(4), int64(11)).Return(repository.ErrNoEncontrado)

	f, err := s.ActualizarPermisos(context.Background(), actorLuis, 4, req)
	require.NoError(t, err)
	assert.True(t, f.PuedeVerHistorial)

	// un paciente ajeno no puede revocar la delegación
	err = s.Eliminar(context.Background(), Actor{ID: 11, Rol: models.RolPaciente}, 4)
	assert.Equal(t, ErrNoEncontrado, TipoDe(err))
}
