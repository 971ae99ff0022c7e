// Package validation implementa las reglas de formato de campos como
// funciones simples que retornan la lista de mensajes violados. Los handlers
// juntan todas las fallas de un request en una sola respuesta, en lugar de
// cortar en la primera.
package validation

import (
	"regexp"
	"time"

	"github.com/dropDatabas3/keybox/internal/http/apierror"
)

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	hexRe   = regexp.MustCompile(`^(?:[0-9a-fA-F]{2})+$`)
)

// Email valida el formato de un email. Lista vacía = válido.
func Email(v string) []string {
	var msgs []string
	if v == "" {
		msgs = append(msgs, "must not be empty")
		return msgs
	}
	if len(v) > 254 {
		msgs = append(msgs, "must not exceed 254 characters")
	}
	if !emailRe.MatchString(v) {
		msgs = append(msgs, "must be a well-formed email address")
	}
	return msgs
}

// Hex valida un blob hex (largo par, sólo dígitos hexadecimales).
func Hex(v string) []string {
	var msgs []string
	if v == "" {
		msgs = append(msgs, "must not be empty")
		return msgs
	}
	if !hexRe.MatchString(v) {
		msgs = append(msgs, "must be a hexadecimal string of even length")
	}
	return msgs
}

// Timestamp valida el patrón fijo de timestamps del API
// (dd/MM/yyyy'T'HH:mm:ss.SSS'Z', UTC).
func Timestamp(v string) []string {
	var msgs []string
	if v == "" {
		msgs = append(msgs, "must not be empty")
		return msgs
	}
	if _, err := time.ParseInLocation(apierror.TimestampLayout, v, time.UTC); err != nil {
		msgs = append(msgs, "must match the pattern dd/MM/yyyy'T'HH:mm:ss.SSS'Z'")
	}
	return msgs
}

// Password valida la política mínima de contraseñas.
func Password(v string) []string {
	var msgs []string
	if v == "" {
		msgs = append(msgs, "must not be empty")
		return msgs
	}
	if len(v) < 10 {
		msgs = append(msgs, "must be at least 10 characters long")
	}
	return msgs
}

// NotEmpty valida presencia.
func NotEmpty(v string) []string {
	if v == "" {
		return []string{"must not be empty"}
	}
	return nil
}

// Collector junta fallas de campo en orden de chequeo.
type Collector struct {
	sub []apierror.SubError
}

// Check corre un validador sobre el campo y registra las violaciones.
func (c *Collector) Check(field string, value string, validate func(string) []string) {
	if msgs := validate(value); len(msgs) > 0 {
		c.sub = append(c.sub, apierror.SubError{
			Field:              field,
			RejectedValue:      value,
			ValidationMessages: msgs,
		})
	}
}

// Err retorna el error de validación agregado, o nil si todo pasó.
func (c *Collector) Err() error {
	if len(c.sub) == 0 {
		return nil
	}
	return apierror.Validation(c.sub)
}
