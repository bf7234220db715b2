package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lizet96/mediconnect-backend/models"
)

// Claves de c.Locals con la identidad del usuario autenticado
const (
	LocalUsuarioID = "usuario_id"
	LocalRol       = "rol"
)

// Claims personalizados para el JWT
type Claims struct {
	UsuarioID int64  `json:"usuario_id"`
	Rol       string `json:"rol"`
	jwt.RegisteredClaims
}

// JWT firma y valida tokens HS256
type JWT struct {
	secret []byte
	ttl    time.Duration
	ahora  func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl, ahora: time.Now}
}

// TTL vigencia de los tokens emitidos
func (j *JWT) TTL() time.Duration {
	return j.ttl
}

// Generar genera un token JWT para un usuario
func (j *JWT) Generar(usuarioID int64, rol models.Rol) (string, error) {
	now := j.ahora()
	claims := Claims{
		UsuarioID: usuarioID,
		Rol:       string(rol),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// Validar verifica firma, algoritmo y expiración
func (j *JWT) Validar(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.ahora))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token inválido")
	}
	if _, err := models.ParseRol(claims.Rol); err != nil {
		return nil, err
	}
	return claims, nil
}

// Middleware valida el header Authorization y guarda la identidad en Locals
func (j *JWT) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token de autorización requerido",
			})
		}

		// formato "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Formato de token inválido",
			})
		}

		claims, err := j.Validar(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token inválido",
			})
		}

		c.Locals(LocalUsuarioID, claims.UsuarioID)
		c.Locals(LocalRol, models.Rol(claims.Rol))

		return c.Next()
	}
}

// Identidad devuelve el usuario autenticado guardado por el middleware
func Identidad(c *fiber.Ctx) (int64, models.Rol, bool) {
	id, ok := c.Locals(LocalUsuarioID).(int64)
	if !ok {
		return 0, "", false
	}
	rol, ok := c.Locals(LocalRol).(models.Rol)
	return id, rol, ok
}

// RequireRole middleware para requerir un rol específico
func RequireRole(allowedRoles ...models.Rol) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, rol, ok := Identidad(c)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Tipo de usuario no encontrado",
			})
		}

		for _, role := range allowedRoles {
			if rol == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Acceso denegado: permisos insuficientes",
		})
	}
}

// CuentaStore estado actual de la cuenta dueña del token
type CuentaStore interface {
	EstaActivo(ctx context.Context, id int64) (bool, error)
}

// RequireCuentaActiva rechaza escrituras de cuentas dadas de baja aunque el token siga vigente.
// Debe ir después de Middleware.
func RequireCuentaActiva(store CuentaStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil || c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
			return c.Next()
		}

		id, _, ok := Identidad(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token de acceso requerido",
			})
		}

		activo, err := store.EstaActivo(c.UserContext(), id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error interno del servidor",
			})
		}
		if !activo {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Cuenta desactivada",
			})
		}
		return c.Next()
	}
}
