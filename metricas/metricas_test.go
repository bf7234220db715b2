package metricas

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricas_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Nuevas(reg)

	m.TransicionCita("pendiente", "confirmada")
	m.TransicionCita("pendiente", "confirmada")
	m.Notificacion("cita_confirmada", false)
	m.Autenticacion("password", true)
	m.HTTPRequest("GET", "/api/citas", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transicionesCitas.WithLabelValues("pendiente", "confirmada")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificaciones.WithLabelValues("cita_confirmada", "fallido")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.notificaciones.WithLabelValues("cita_confirmada", "enviado")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.autenticaciones.WithLabelValues("password", "exito")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/citas", "200")))
}

func TestMetricas_ReceptorNil(t *testing.T) {
	var m *Metricas
	assert.NotPanics(t, func() {
		m.TransicionCita("pendiente", "cancelado")
		m.Notificacion("registro", true)
		m.Autenticacion("mfa", false)
		m.HTTPRequest("POST", "/api/auth/login", 401, time.Second)
	})
}

func TestRegistrarPool(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegistrarPool(reg, func() int32 { return 3 })

	n, err := testutil.GatherAndCount(reg, "mediconnect_db_connections_active")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
