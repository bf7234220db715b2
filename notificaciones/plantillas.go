package notificaciones

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Mensaje correo listo para Mailer.Enviar
type Mensaje struct {
	Para   string
	Asunto string
	HTML   string
}

// Tipos de correo, usados también como etiqueta de métricas
const (
	TipoVerificacion   = "verificacion"
	TipoCitaSolicitada = "cita_solicitada"
	TipoCitaConfirmada = "cita_confirmada"
	TipoCitaCancelada  = "cita_cancelada"
	TipoReciboPago     = "recibo_pago"
)

const base = `{{define "inicio"}}<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #1f2937; max-width: 560px; margin: auto;">
<h2 style="color: #0f766e;">MediConnect</h2>{{end}}
{{define "fin"}}<p style="font-size: 12px; color: #6b7280;">Este es un mensaje automático, no respondas a este correo.</p>
</body></html>{{end}}`

var plantillas = template.Must(template.New("correos").Parse(base + `
{{define "verificacion"}}{{template "inicio"}}
<p>Hola {{.Nombre}},</p>
<p>Tu código de verificación es:</p>
<p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Codigo}}</p>
<p>El código vence en {{.Minutos}} minutos.</p>
{{template "fin"}}{{end}}

{{define "cita_solicitada"}}{{template "inicio"}}
<p>Dr(a). {{.Doctor}},</p>
<p>{{.Paciente}} solicitó una cita para el {{.Fecha}} a las {{.Hora}} ({{.Modalidad}}).</p>
{{if .Motivo}}<p>Motivo: {{.Motivo}}</p>{{end}}
<p>Ingresa a la plataforma para confirmarla.</p>
{{template "fin"}}{{end}}

{{define "cita_confirmada"}}{{template "inicio"}}
<p>Hola {{.Paciente}},</p>
<p>Tu cita con Dr(a). {{.Doctor}} del {{.Fecha}} a las {{.Hora}} fue confirmada.</p>
{{template "fin"}}{{end}}

{{define "cita_cancelada"}}{{template "inicio"}}
<p>Hola {{.Destinatario}},</p>
<p>La cita entre {{.Paciente}} y Dr(a). {{.Doctor}} del {{.Fecha}} a las {{.Hora}} fue cancelada.</p>
{{template "fin"}}{{end}}

{{define "recibo_pago"}}{{template "inicio"}}
<p>Hola {{.Paciente}},</p>
<p>Recibimos tu pago de <strong>${{printf "%.2f" .Monto}}</strong> a Dr(a). {{.Doctor}}.</p>
<p>Método: {{.Metodo}}<br>Referencia: {{.Referencia}}</p>
{{template "fin"}}{{end}}
`))

// DatosCita datos comunes a los correos de citas
type DatosCita struct {
	Destinatario string
	Paciente     string
	Doctor       string
	Fecha        string
	Hora         string
	Modalidad    string
	Motivo       string
}

// DatosPago datos del recibo
type DatosPago struct {
	Paciente   string
	Doctor     string
	Monto      float64
	Metodo     string
	Referencia string
}

func renderizar(nombre string, datos any) (string, error) {
	var buf bytes.Buffer
	if err := plantillas.ExecuteTemplate(&buf, nombre, datos); err != nil {
		return "", fmt.Errorf("error al renderizar plantilla %s: %w", nombre, err)
	}
	return buf.String(), nil
}

func MensajeVerificacion(para, nombre, codigo string, vigencia time.Duration) (Mensaje, error) {
	html, err := renderizar(TipoVerificacion, map[string]any{
		"Nombre":  nombre,
		"Codigo":  codigo,
		"Minutos": int(vigencia.Minutes()),
	})
	return Mensaje{Para: para, Asunto: "Verifica tu correo en MediConnect", HTML: html}, err
}

func MensajeCitaSolicitada(para string, d DatosCita) (Mensaje, error) {
	html, err := renderizar(TipoCitaSolicitada, d)
	return Mensaje{Para: para, Asunto: "Nueva solicitud de cita", HTML: html}, err
}

func MensajeCitaConfirmada(para string, d DatosCita) (Mensaje, error) {
	html, err := renderizar(TipoCitaConfirmada, d)
	return Mensaje{Para: para, Asunto: "Tu cita fue confirmada", HTML: html}, err
}

func MensajeCitaCancelada(para string, d DatosCita) (Mensaje, error) {
	html, err := renderizar(TipoCitaCancelada, d)
	return Mensaje{Para: para, Asunto: "Cita cancelada", HTML: html}, err
}

func MensajeReciboPago(para string, d DatosPago) (Mensaje, error) {
	html, err := renderizar(TipoReciboPago, d)
	return Mensaje{Para: para, Asunto: "Recibo de pago", HTML: html}, err
}
