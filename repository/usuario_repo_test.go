package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ahora = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func nuevoMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var columnasUsuarioMock = []string{"id", "nombre", "apellido", "email", "password_hash", "rol",
	"telefono", "cedula_profesional", "especialidad", "activo", "mfa_enabled", "mfa_secret",
	"created_at", "updated_at"}

func filaDoctor(id int64, especialidad string) []any {
	return []any{id, "Ana", "Ruiz", "ana@clinica.mx", "$2a$hash", "doctor",
		"5551234", "CED-123", especialidad, true, false, "", ahora, ahora}
}

func TestUsuarioRepo_ObtenerPorEmail(t *testing.T) {
	mock := nuevoMock(t)
	repo := NewUsuarioRepo(mock)

	mock.ExpectQuery("FROM usuarios WHERE LOWER").
		WithArgs("Ana@Clinica.mx").
		WillReturnRows(pgxmock.NewRows(columnasUsuarioMock).AddRow(filaDoctor(7, "Cardiología")...))

	u, err := repo.ObtenerPorEmail(context.Background(), "Ana@Clinica.mx")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, models.RolDoctor, u.Rol)
	assert.Equal(t, "CED-123", u.CedulaProfesional)
	assert.Equal(t, "Ana Ruiz", u.NombreCompleto())
}

func TestUsuarioRepo_ObtenerPorID_NoEncontrado(t *testing.T) {
	mock := nuevoMock(t)
	repo := NewUsuarioRepo(mock)

	mock.ExpectQuery("FROM usuarios WHERE id").WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)

	_, err := repo.ObtenerPorID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestUsuarioRepo_RolDesconocido(t *testing.T) {
	mock := nuevoMock(t)
	repo := NewUsuarioRepo(mock)

	fila := filaDoctor(3, "")
	fila[5] = "admin"
	mock.ExpectQuery("FROM usuarios WHERE id").WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(columnasUsuarioMock).AddRow(fila...))

	_, err := repo.ObtenerPorID(context.Background(), 3)
	assert.ErrorContains(t, err, "rol desconocido")
}

func TestUsuarioRepo_ExisteEmail(t *testing.T) {
	mock := nuevoMock(t)
	repo := NewUsuarioRepo(mock)

	mock.ExpectQuery("SELECT EXISTS").WithArgs("ana@clinica.mx").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	existe, err := repo.ExisteEmail(context.Background(), "ana@clinica.mx")
	require.NoError(t, err)
	assert.True(t, existe)
}

func TestInsertarUsuario_Duplicado(t *testing.T) {
	mock := nuevoMock(t)

	mock.ExpectQuery("INSERT INTO usuarios").
		WithArgs("Luis", "Pérez", "luis@mail.com", "hash", "paciente", nil, nil, nil).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "usuarios_email_key"})

	u := &models.Usuario{Nombre: "Luis", Apellido: "Pérez", Email: "LUIS@mail.com", PasswordHash: "hash", Rol: models.RolPaciente}
	err := insertarUsuario(context.Background(), mock, u)
	assert.ErrorIs(t, err, ErrDuplicado)
	assert.ErrorContains(t, err, "usuarios_email_key")
}

func TestUsuarioRepo_ListarDoctoresPorEspecialidad(t *testing.T) {
	mock := nuevoMock(t)
	repo := NewUsuarioRepo(mock)

	mock.ExpectQuery(`WHERE rol = .+ AND activo = TRUE AND strpos\(lower\(especialidad\), lower\(\$2\)\) > 0`).
		WithArgs("doctor", "cardio").
		WillReturnRows(pgxmock.NewRows(columnasUsuarioMock).
			AddRow(filaDoctor(1, "Cardiología")...).
			AddRow(filaDoctor(2, "Cardiología pediátrica")...))

	doctores, err := repo.ListarDoctores(context.Background(), "cardio")
	require.NoError(t, err)
	assert.Len(t, doctores, 2)
	assert.Equal(t, int64(2), doctores[1].ID)
}

func TestUsuarioRepo_ListarDoctoresComodinesLiterales(t *testing.T) {
	mock := nuevoMock(t)
	repo := NewUsuarioRepo(mock)

	mock.ExpectQuery("strpos").
		WithArgs("doctor", "_").
		WillReturnRows(pgxmock.NewRows(columnasUsuarioMock))

	doctores, err := repo.ListarDoctores(context.Background(), "_")
	require.NoError(t, err)
	assert.Empty(t, doctores)
}

func TestUsuarioRepo_EstaActivo(t *testing.T) {
	mock := nuevoMock(t)
	repo := NewUsuarioRepo(mock)

	mock.ExpectQuery("SELECT activo FROM usuarios").WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"activo"}).AddRow(false))
	mock.ExpectQuery("SELECT activo FROM usuarios").WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	activo, err := repo.EstaActivo(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, activo)

	activo, err = repo.EstaActivo(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, activo)
}

func TestUsuarioRepo_Desactivar(t *testing.T) {
	mock := nuevoMock(t)
	repo := NewUsuarioRepo(mock)

	mock.ExpectExec("UPDATE usuarios SET activo = FALSE").WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE usuarios SET activo = FALSE").WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.Desactivar(context.Background(), 5))
	assert.ErrorIs(t, repo.Desactivar(context.Background(), 5), ErrNoEncontrado)
}
