package metricas

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mediconnect"

// Metricas contadores Prometheus de la aplicación. Todos los métodos aceptan
// un receptor nil para que los servicios funcionen sin métricas en pruebas.
type Metricas struct {
	httpRequests      *prometheus.CounterVec
	httpDuracion      *prometheus.HistogramVec
	transicionesCitas *prometheus.CounterVec
	notificaciones    *prometheus.CounterVec
	autenticaciones   *prometheus.CounterVec
}

// Nuevas crea y registra las métricas en reg
func Nuevas(reg prometheus.Registerer) *Metricas {
	m := &Metricas{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total de peticiones HTTP",
			},
			[]string{"method", "route", "status_code"},
		),
		httpDuracion: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duración de las peticiones HTTP en segundos",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		transicionesCitas: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "citas_transiciones_total",
				Help:      "Cambios de estado aplicados a citas",
			},
			[]string{"desde", "hacia"},
		),
		notificaciones: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notificaciones_total",
				Help:      "Correos enviados por tipo y resultado",
			},
			[]string{"tipo", "resultado"},
		),
		autenticaciones: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_intentos_total",
				Help:      "Intentos de autenticación",
			},
			[]string{"metodo", "resultado"},
		),
	}

	reg.MustRegister(m.httpRequests, m.httpDuracion, m.transicionesCitas, m.notificaciones, m.autenticaciones)
	return m
}

// RegistrarPool expone el número de conexiones activas del pool
func RegistrarPool(reg prometheus.Registerer, activas func() int32) {
	reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_active",
			Help:      "Conexiones de base de datos en uso",
		},
		func() float64 { return float64(activas()) },
	))
}

func (m *Metricas) HTTPRequest(method, route string, status int, duracion time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuracion.WithLabelValues(method, route).Observe(duracion.Seconds())
}

func (m *Metricas) TransicionCita(desde, hacia string) {
	if m == nil {
		return
	}
	m.transicionesCitas.WithLabelValues(desde, hacia).Inc()
}

// Notificacion cuenta un correo; enviado=false significa entrega no confirmada
func (m *Metricas) Notificacion(tipo string, enviado bool) {
	if m == nil {
		return
	}
	resultado := "enviado"
	if !enviado {
		resultado = "fallido"
	}
	m.notificaciones.WithLabelValues(tipo, resultado).Inc()
}

func (m *Metricas) Autenticacion(metodo string, exito bool) {
	if m == nil {
		return
	}
	resultado := "exito"
	if !exito {
		resultado = "fallo"
	}
	m.autenticaciones.WithLabelValues(metodo, resultado).Inc()
}
