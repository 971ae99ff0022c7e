package apierror

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/keybox/internal/observability/logger"
)

// ApiError es la forma normalizada de error hacia el cliente.
// El timestamp está siempre presente (UTC, patrón fijo) y errors es una
// lista vacía (nunca ausente) cuando no hay fallas de campo.
type ApiError struct {
	Status    string     `json:"status"`
	Timestamp Timestamp  `json:"timestamp"`
	Message   string     `json:"message"`
	Errors    []SubError `json:"errors"`
}

// SubError es una falla de validación a nivel de campo.
type SubError struct {
	Field              string   `json:"field"`
	RejectedValue      any      `json:"rejectedValue"`
	ValidationMessages []string `json:"validationMessages"`
}

// Translate arma el ApiError (y su status HTTP) para cualquier error.
// El timestamp se toma en el momento de la traducción.
func Translate(err error) (int, ApiError) {
	ae := FromError(err)

	sub := ae.Sub
	if sub == nil {
		sub = []SubError{}
	}
	return ae.Kind.status(), ApiError{
		Status:    ae.Kind.label(),
		Timestamp: Now(),
		Message:   ae.Message,
		Errors:    sub,
	}
}

// Write serializa el error traducido. Nunca falla: si el encode fallara, el
// cliente ya recibió status y headers correctos.
// Las causas de errores internos se loguean acá y no viajan al cliente.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	status, body := Translate(err)

	if status >= http.StatusInternalServerError {
		log := logger.L()
		if r != nil {
			log = logger.From(r.Context())
		}
		log.Error("unhandled internal error", logger.Err(err))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
