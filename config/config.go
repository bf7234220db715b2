package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Proveedores de correo soportados
const (
	ProveedorSMTP = "smtp"
	ProveedorAPI  = "api"
	ProveedorLog  = "log"
)

// Config agrupa toda la configuración de la aplicación
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	CORSOrigins string

	Database DatabaseConfig
	JWT      JWTConfig
	Email    EmailConfig

	// Tiempo de vida de una verificación pendiente
	VerificationTTL time.Duration
	// Dominio del widget de videoconsulta
	VideoDomain string
}

// DatabaseConfig configuración del pool de conexiones
type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// JWTConfig configuración de firma de tokens
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// EmailConfig configuración del proveedor de correo
type EmailConfig struct {
	Provider     string
	From         string
	FromName     string
	Timeout      time.Duration
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	APIURL       string
	APIKey       string
}

// Load lee el archivo .env (si existe) y las variables de entorno
func Load() (*Config, error) {
	// El .env es opcional, en producción se usan variables del sistema
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_CONNS", 30)
	v.SetDefault("DB_MIN_CONNS", 5)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("VERIFICATION_TTL", "15m")

	v.SetDefault("EMAIL_PROVIDER", ProveedorLog)
	v.SetDefault("EMAIL_FROM", "no-reply@mediconnect.local")
	v.SetDefault("EMAIL_FROM_NAME", "MediConnect")
	v.SetDefault("EMAIL_TIMEOUT", "10s")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("EMAIL_API_URL", "https://api.brevo.com")
	v.SetDefault("EMAIL_API_KEY", "")

	v.SetDefault("VIDEO_DOMAIN", "meet.jit.si")
}

// FromViper construye y valida la configuración a partir de una instancia de viper
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		CORSOrigins: v.GetString("CORS_ORIGINS"),
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
			MinConns: v.GetInt32("DB_MIN_CONNS"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Email: EmailConfig{
			Provider:     strings.ToLower(v.GetString("EMAIL_PROVIDER")),
			From:         v.GetString("EMAIL_FROM"),
			FromName:     v.GetString("EMAIL_FROM_NAME"),
			Timeout:      v.GetDuration("EMAIL_TIMEOUT"),
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUser:     v.GetString("SMTP_USER"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
			APIURL:       strings.TrimRight(v.GetString("EMAIL_API_URL"), "/"),
			APIKey:       v.GetString("EMAIL_API_KEY"),
		},
		VerificationTTL: v.GetDuration("VERIFICATION_TTL"),
		VideoDomain:     v.GetString("VIDEO_DOMAIN"),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuración inválida: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL es requerida")
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET es requerida")
	}
	if cfg.JWT.TTL <= 0 || cfg.VerificationTTL <= 0 {
		return fmt.Errorf("JWT_TTL y VERIFICATION_TTL deben ser positivos")
	}
	if cfg.IsProduction() && strings.TrimSpace(cfg.CORSOrigins) == "*" {
		return fmt.Errorf("CORS_ORIGINS no puede ser \"*\" en producción")
	}

	switch cfg.Email.Provider {
	case ProveedorSMTP:
		if cfg.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST es requerido con EMAIL_PROVIDER=smtp")
		}
	case ProveedorAPI:
		if cfg.Email.APIKey == "" {
			return fmt.Errorf("EMAIL_API_KEY es requerida con EMAIL_PROVIDER=api")
		}
	case ProveedorLog:
	default:
		return fmt.Errorf("EMAIL_PROVIDER desconocido: %q", cfg.Email.Provider)
	}
	return nil
}

// IsProduction indica si la aplicación corre en producción
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
