package services

import (
	"context"
	"time"

	"github.com/lizet96/mediconnect-backend/models"
	"github.com/stretchr/testify/mock"
)

// MockUsuarioRepository implementación falsa de UsuarioRepository
type MockUsuarioRepository struct {
	mock.Mock
}

func (m *MockUsuarioRepository) ExisteEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsuarioRepository) ObtenerPorID(ctx context.Context, id int64) (*models.Usuario, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.Usuario)
	return u, args.Error(1)
}

func (m *MockUsuarioRepository) ObtenerPorEmail(ctx context.Context, email string) (*models.Usuario, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.Usuario)
	return u, args.Error(1)
}

func (m *MockUsuarioRepository) Actualizar(ctx context.Context, id int64, req models.ActualizarPerfilRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *MockUsuarioRepository) Desactivar(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUsuarioRepository) ListarDoctores(ctx context.Context, especialidad string) ([]models.Usuario, error) {
	args := m.Called(ctx, especialidad)
	u, _ := args.Get(0).([]models.Usuario)
	return u, args.Error(1)
}

func (m *MockUsuarioRepository) GuardarMFA(ctx context.Context, id int64, secret string, enabled bool) error {
	return m.Called(ctx, id, secret, enabled).Error(0)
}

// MockVerificacionRepository implementación falsa de VerificacionRepository
type MockVerificacionRepository struct {
	mock.Mock
}

func (m *MockVerificacionRepository) Reemplazar(ctx context.Context, v *models.VerificacionPendiente) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVerificacionRepository) ObtenerPorToken(ctx context.Context, token string) (*models.VerificacionPendiente, error) {
	args := m.Called(ctx, token)
	v, _ := args.Get(0).(*models.VerificacionPendiente)
	return v, args.Error(1)
}

func (m *MockVerificacionRepository) ObtenerUltimaPorEmail(ctx context.Context, email string) (*models.VerificacionPendiente, error) {
	args := m.Called(ctx, email)
	v, _ := args.Get(0).(*models.VerificacionPendiente)
	return v, args.Error(1)
}

func (m *MockVerificacionRepository) ActualizarCodigo(ctx context.Context, id int64, token, codigo string, expiraEn time.Time) error {
	return m.Called(ctx, id, token, codigo, expiraEn).Error(0)
}

func (m *MockVerificacionRepository) Promover(ctx context.Context, v *models.VerificacionPendiente) (*models.Usuario, error) {
	args := m.Called(ctx, v)
	u, _ := args.Get(0).(*models.Usuario)
	return u, args.Error(1)
}

// MockPacienteRepository implementación falsa de PacienteRepository
type MockPacienteRepository struct {
	mock.Mock
}

func (m *MockPacienteRepository) ObtenerPorUsuario(ctx context.Context, usuarioID int64) (*models.PacienteDetalle, error) {
	args := m.Called(ctx, usuarioID)
	p, _ := args.Get(0).(*models.PacienteDetalle)
	return p, args.Error(1)
}

func (m *MockPacienteRepository) Listar(ctx context.Context) ([]models.PacienteDetalle, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]models.PacienteDetalle)
	return p, args.Error(1)
}

func (m *MockPacienteRepository) Actualizar(ctx context.Context, usuarioID int64, req models.ExpedienteRequest) error {
	return m.Called(ctx, usuarioID, req).Error(0)
}

// MockCitaRepository implementación falsa de CitaRepository
type MockCitaRepository struct {
	mock.Mock
}

func (m *MockCitaRepository) Crear(ctx context.Context, c *models.Cita) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCitaRepository) ObtenerPorID(ctx context.Context, id int64) (*models.CitaDetalle, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.CitaDetalle)
	return c, args.Error(1)
}

func (m *MockCitaRepository) ListarPorPaciente(ctx context.Context, pacienteID int64) ([]models.CitaDetalle, error) {
	args := m.Called(ctx, pacienteID)
	c, _ := args.Get(0).([]models.CitaDetalle)
	return c, args.Error(1)
}

func (m *MockCitaRepository) ListarPorDoctor(ctx context.Context, doctorID int64) ([]models.CitaDetalle, error) {
	args := m.Called(ctx, doctorID)
	c, _ := args.Get(0).([]models.CitaDetalle)
	return c, args.Error(1)
}

func (m *MockCitaRepository) ActualizarEstado(ctx context.Context, id int64, desde, hacia models.EstadoCita, sala string) error {
	return m.Called(ctx, id, desde, hacia, sala).Error(0)
}

// MockRecetaRepository implementación falsa de RecetaRepository
type MockRecetaRepository struct {
	mock.Mock
}

func (m *MockRecetaRepository) Crear(ctx context.Context, r *models.Receta) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecetaRepository) ObtenerPorID(ctx context.Context, id int64) (*models.Receta, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Receta)
	return r, args.Error(1)
}

func (m *MockRecetaRepository) ListarPorCita(ctx context.Context, citaID int64) ([]models.Receta, error) {
	args := m.Called(ctx, citaID)
	r, _ := args.Get(0).([]models.Receta)
	return r, args.Error(1)
}

func (m *MockRecetaRepository) Actualizar(ctx context.Context, r *models.Receta) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecetaRepository) Autenticar(ctx context.Context, id int64, firma string) (time.Time, error) {
	args := m.Called(ctx, id, firma)
	en, _ := args.Get(0).(time.Time)
	return en, args.Error(1)
}

// MockPagoRepository implementación falsa de PagoRepository
type MockPagoRepository struct {
	mock.Mock
}

func (m *MockPagoRepository) Crear(ctx context.Context, p *models.Pago) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPagoRepository) ObtenerPorID(ctx context.Context, id int64) (*models.Pago, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Pago)
	return p, args.Error(1)
}

func (m *MockPagoRepository) ListarPorUsuario(ctx context.Context, usuarioID int64) ([]models.Pago, error) {
	args := m.Called(ctx, usuarioID)
	p, _ := args.Get(0).([]models.Pago)
	return p, args.Error(1)
}

func (m *MockPagoRepository) ActualizarEstado(ctx context.Context, id int64, desde, hacia models.EstadoPago) error {
	return m.Called(ctx, id, desde, hacia).Error(0)
}

// MockFamiliarRepository implementación falsa de FamiliarRepository
type MockFamiliarRepository struct {
	mock.Mock
}

func (m *MockFamiliarRepository) Crear(ctx context.Context, f *models.Familiar) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFamiliarRepository) ObtenerPorID(ctx context.Context, id int64) (*models.Familiar, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*models.Familiar)
	return f, args.Error(1)
}

func (m *MockFamiliarRepository) Buscar(ctx context.Context, pacienteID, familiarID int64) (*models.Familiar, error) {
	args := m.Called(ctx, pacienteID, familiarID)
	f, _ := args.Get(0).(*models.Familiar)
	return f, args.Error(1)
}

func (m *MockFamiliarRepository) ListarPorPaciente(ctx context.Context, pacienteID int64) ([]models.FamiliarDetalle, error) {
	args := m.Called(ctx, pacienteID)
	f, _ := args.Get(0).([]models.FamiliarDetalle)
	return f, args.Error(1)
}

func (m *MockFamiliarRepository) ListarPorFamiliar(ctx context.Context, familiarID int64) ([]models.FamiliarDetalle, error) {
	args := m.Called(ctx, familiarID)
	f, _ := args.Get(0).([]models.FamiliarDetalle)
	return f, args.Error(1)
}

func (m *MockFamiliarRepository) ActualizarPermisos(ctx context.Context, id, pacienteID int64, req models.PermisosFamiliarRequest) error {
	return m.Called(ctx, id, pacienteID, req).Error(0)
}

func (m *MockFamiliarRepository) Eliminar(ctx context.Context, id, pacienteID int64) error {
	return m.Called(ctx, id, pacienteID).Error(0)
}

// MockMailer registra los correos enviados
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Enviar(ctx context.Context, para, asunto, html string) bool {
	return m.Called(ctx, para, asunto, html).Bool(0)
}

// MockDelegaciones implementación falsa de Delegaciones
type MockDelegaciones struct {
	mock.Mock
}

func (m *MockDelegaciones) PuedeAgendar(ctx context.Context, familiarID, pacienteID int64) (bool, error) {
	args := m.Called(ctx, familiarID, pacienteID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDelegaciones) PuedeVerHistorial(ctx context.Context, familiarID, pacienteID int64) (bool, error) {
	args := m.Called(ctx, familiarID, pacienteID)
	return args.Bool(0), args.Error(1)
}

type emisorFalso struct {
	err error
}

func (e emisorFalso) Generar(usuarioID int64, rol models.Rol) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return "jwt-" + string(rol), nil
}

func (emisorFalso) TTL() time.Duration { return 24 * time.Hour }
