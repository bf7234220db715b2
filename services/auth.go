package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lizet96/mediconnect-backend/logger"
	"github.com/lizet96/mediconnect-backend/metricas"
	"github.com/lizet96/mediconnect-backend/models"
	"github.com/lizet96/mediconnect-backend/notificaciones"
	"github.com/lizet96/mediconnect-backend/repository"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

const emisorMFA = "MediConnect"

// AuthService registro con verificación por correo, login y MFA
type AuthService struct {
	usuarios        UsuarioRepository
	verificaciones  VerificacionRepository
	tokens          EmisorTokens
	notificador     notificador
	metricas        *metricas.Metricas
	log             *logger.Logger
	verificacionTTL time.Duration

	costoBcrypt int
	ahora       func() time.Time
	nuevoCodigo func() (string, error)
	nuevoToken  func() string
}

func NewAuthService(
	usuarios UsuarioRepository,
	verificaciones VerificacionRepository,
	tokens EmisorTokens,
	mailer notificaciones.Mailer,
	verificacionTTL time.Duration,
	m *metricas.Metricas,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		usuarios:        usuarios,
		verificaciones:  verificaciones,
		tokens:          tokens,
		notificador:     notificador{mailer: mailer, metricas: m, log: log},
		metricas:        m,
		log:             log,
		verificacionTTL: verificacionTTL,
		costoBcrypt:     bcrypt.DefaultCost,
		ahora:           time.Now,
		nuevoCodigo:     codigoAleatorio,
		nuevoToken:      func() string { return uuid.NewString() },
	}
}

// codigoAleatorio código numérico de 6 dígitos
func codigoAleatorio() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("error al generar código: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizarEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registrar guarda una verificación pendiente y envía el código por correo.
// Un correo que ya pertenece a un usuario devuelve conflicto sin tocar nada.
func (s *AuthService) Registrar(ctx context.Context, req models.RegistroRequest) (*models.RegistroResponse, error) {
	rol, err := models.ParseRol(req.Rol)
	if err != nil {
		return nil, nuevoError(ErrValidacion, "El rol debe ser doctor o paciente")
	}
	if rol.EsDoctor() && strings.TrimSpace(req.CedulaProfesional) == "" {
		return nil, nuevoError(ErrValidacion, "La cédula profesional es requerida para doctores")
	}

	email := normalizarEmail(req.Email)
	existe, err := s.usuarios.ExisteEmail(ctx, email)
	if err != nil {
		return nil, errorInterno("Error al verificar el correo", err)
	}
	if existe {
		return nil, nuevoError(ErrConflicto, "El email ya está registrado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.costoBcrypt)
	if err != nil {
		return nil, errorInterno("Error al procesar la contraseña", err)
	}

	codigo, err := s.nuevoCodigo()
	if err != nil {
		return nil, errorInterno("Error al generar el código", err)
	}

	v := &models.VerificacionPendiente{
		Email:             email,
		Token:             s.nuevoToken(),
		Codigo:            codigo,
		Nombre:            strings.TrimSpace(req.Nombre),
		Apellido:          strings.TrimSpace(req.Apellido),
		PasswordHash:      string(hash),
		Rol:               rol,
		Telefono:          req.Telefono,
		CedulaProfesional: req.CedulaProfesional,
		Especialidad:      req.Especialidad,
		ExpiraEn:          s.ahora().Add(s.verificacionTTL),
	}
	if err := s.verificaciones.Reemplazar(ctx, v); err != nil {
		return nil, errorInterno("Error al guardar la verificación", err)
	}

	msg, err := notificaciones.MensajeVerificacion(v.Email, v.Nombre, v.Codigo, s.verificacionTTL)
	enviado := s.notificador.enviar(ctx, notificaciones.TipoVerificacion, msg, err)

	s.log.WithComponent("auth").WithField("email", v.Email).WithField("rol", string(rol)).
		Info("Registro pendiente de verificación")

	return &models.RegistroResponse{Email: v.Email, Token: v.Token, ExpiraEn: v.ExpiraEn, Enviado: enviado}, nil
}

var errCodigoInvalido = nuevoError(ErrValidacion, "Código de verificación inválido")

// VerificarEmail valida token, correo y código y promueve el registro a usuario
func (s *AuthService) VerificarEmail(ctx context.Context, req models.VerificarEmailRequest) (*models.Usuario, error) {
	v, err := s.verificaciones.ObtenerPorToken(ctx, req.Token)
	if errors.Is(err, repository.ErrNoEncontrado) {
		return nil, errCodigoInvalido
	}
	if err != nil {
		return nil, errorInterno("Error al buscar la verificación", err)
	}

	if v.Email != normalizarEmail(req.Email) {
		return nil, errCodigoInvalido
	}
	// vencido no se acepta ni con el código correcto
	if v.Expirada(s.ahora()) {
		return nil, nuevoError(ErrValidacion, "El código de verificación expiró")
	}
	if subtle.ConstantTimeCompare([]byte(v.Codigo), []byte(req.Codigo)) != 1 {
		return nil, errCodigoInvalido
	}

	usuario, err := s.verificaciones.Promover(ctx, v)
	if errors.Is(err, repository.ErrDuplicado) {
		return nil, nuevoError(ErrConflicto, "El email ya está registrado")
	}
	if err != nil {
		return nil, errorInterno("Error al crear el usuario", err)
	}

	s.log.Audit(usuario.ID, "verificar_email", "usuarios", true, map[string]interface{}{"rol": string(usuario.Rol)})
	return usuario, nil
}

// ReenviarCodigo emite token y código nuevos para el pendiente más reciente
func (s *AuthService) ReenviarCodigo(ctx context.Context, req models.ReenviarCodigoRequest) (*models.RegistroResponse, error) {
	email := normalizarEmail(req.Email)
	v, err := s.verificaciones.ObtenerUltimaPorEmail(ctx, email)
	if err != nil {
		return nil, desdeRepo(err, "No hay un registro pendiente para ese correo")
	}

	codigo, err := s.nuevoCodigo()
	if err != nil {
		return nil, errorInterno("Error al generar el código", err)
	}
	token := s.nuevoToken()
	expira := s.ahora().Add(s.verificacionTTL)

	if err := s.verificaciones.ActualizarCodigo(ctx, v.ID, token, codigo, expira); err != nil {
		return nil, desdeRepo(err, "No hay un registro pendiente para ese correo")
	}

	msg, err := notificaciones.MensajeVerificacion(v.Email, v.Nombre, codigo, s.verificacionTTL)
	enviado := s.notificador.enviar(ctx, notificaciones.TipoVerificacion, msg, err)

	return &models.RegistroResponse{Email: v.Email, Token: token, ExpiraEn: expira, Enviado: enviado}, nil
}

var errCredenciales = nuevoError(ErrNoAutenticado, "Credenciales inválidas")

// Login compara la contraseña y, si el usuario tiene MFA, exige el código TOTP
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	usuario, err := s.usuarios.ObtenerPorEmail(ctx, normalizarEmail(req.Email))
	if errors.Is(err, repository.ErrNoEncontrado) {
		s.metricas.Autenticacion("password", false)
		return nil, errCredenciales
	}
	if err != nil {
		return nil, errorInterno("Error al buscar el usuario", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		s.metricas.Autenticacion("password", false)
		s.log.Audit(usuario.ID, "login", "usuarios", false, map[string]interface{}{"motivo": "password"})
		return nil, errCredenciales
	}
	if !usuario.Activo {
		return nil, nuevoError(ErrProhibido, "La cuenta está desactivada")
	}

	if usuario.MFAEnabled {
		if req.MFACode == "" {
			return nil, nuevoError(ErrNoAutenticado, "Se requiere el código MFA")
		}
		if !s.validarTOTP(req.MFACode, usuario.MFASecret) {
			s.metricas.Autenticacion("mfa", false)
			s.log.Audit(usuario.ID, "login", "usuarios", false, map[string]interface{}{"motivo": "mfa"})
			return nil, nuevoError(ErrNoAutenticado, "Código MFA inválido")
		}
	}

	token, err := s.tokens.Generar(usuario.ID, usuario.Rol)
	if err != nil {
		return nil, errorInterno("Error al generar token", err)
	}

	s.metricas.Autenticacion("password", true)
	s.log.Audit(usuario.ID, "login", "usuarios", true, nil)

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
		Usuario:     usuario,
	}, nil
}

func (s *AuthService) validarTOTP(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, s.ahora().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// ConfigurarMFA genera un secreto nuevo; queda inactivo hasta ActivarMFA
func (s *AuthService) ConfigurarMFA(ctx context.Context, actor Actor) (*models.MFASetupResponse, error) {
	usuario, err := s.usuarios.ObtenerPorID(ctx, actor.ID)
	if err != nil {
		return nil, desdeRepo(err, "Usuario no encontrado")
	}
	if usuario.MFAEnabled {
		return nil, nuevoError(ErrConflicto, "MFA ya está activo")
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: emisorMFA, AccountName: usuario.Email})
	if err != nil {
		return nil, errorInterno("Error al generar el secreto MFA", err)
	}
	if err := s.usuarios.GuardarMFA(ctx, usuario.ID, key.Secret(), false); err != nil {
		return nil, desdeRepo(err, "Usuario no encontrado")
	}

	return &models.MFASetupResponse{Secret: key.Secret(), QRCodeURL: key.URL()}, nil
}

func (s *AuthService) ActivarMFA(ctx context.Context, actor Actor, code string) error {
	usuario, err := s.usuarios.ObtenerPorID(ctx, actor.ID)
	if err != nil {
		return desdeRepo(err, "Usuario no encontrado")
	}
	if usuario.MFAEnabled {
		return nuevoError(ErrConflicto, "MFA ya está activo")
	}
	if usuario.MFASecret == "" {
		return nuevoError(ErrValidacion, "Primero configura MFA")
	}
	if !s.validarTOTP(code, usuario.MFASecret) {
		return nuevoError(ErrValidacion, "Código MFA inválido")
	}

	if err := s.usuarios.GuardarMFA(ctx, usuario.ID, usuario.MFASecret, true); err != nil {
		return desdeRepo(err, "Usuario no encontrado")
	}
	s.log.Audit(usuario.ID, "activar_mfa", "usuarios", true, nil)
	return nil
}

func (s *AuthService) DesactivarMFA(ctx context.Context, actor Actor, code string) error {
	usuario, err := s.usuarios.ObtenerPorID(ctx, actor.ID)
	if err != nil {
		return desdeRepo(err, "Usuario no encontrado")
	}
	if !usuario.MFAEnabled {
		return nuevoError(ErrValidacion, "MFA no está activo")
	}
	if !s.validarTOTP(code, usuario.MFASecret) {
		return nuevoError(ErrValidacion, "Código MFA inválido")
	}

	if err := s.usuarios.GuardarMFA(ctx, usuario.ID, "", false); err != nil {
		return desdeRepo(err, "Usuario no encontrado")
	}
	s.log.Audit(usuario.ID, "desactivar_mfa", "usuarios", true, nil)
	return nil
}
