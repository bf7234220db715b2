package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger envuelve logrus.Logger con helpers del dominio
type Logger struct {
	*logrus.Logger
}

// New crea un logger JSON con el nivel indicado (info si el nivel es inválido)
func New(level string) *Logger {
	return NewWithOutput(level, os.Stdout)
}

// NewWithOutput igual que New pero escribiendo en out
func NewWithOutput(level string, out io.Writer) *Logger {
	log := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(out)

	return &Logger{Logger: log}
}

// Discard logger silencioso para pruebas
func Discard() *Logger {
	return NewWithOutput("panic", io.Discard)
}

// WithComponent agrega el nombre del componente
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.Logger.WithField("component", component)
}

// Audit registra un evento de auditoría sobre un recurso
func (l *Logger) Audit(userID int64, action, resource string, success bool, details map[string]interface{}) {
	entry := l.Logger.WithFields(logrus.Fields{
		"audit":    true,
		"user_id":  userID,
		"action":   action,
		"resource": resource,
		"success":  success,
		"details":  details,
	})

	if success {
		entry.Info("Evento de auditoría")
	} else {
		entry.Warn("Evento de auditoría fallido")
	}
}
