// Package apierror es la capa de traducción de errores: mapea toda falla de
// dominio/validación/transporte a una única representación estable hacia el
// cliente (ApiError). Es transversal: intercepta fallas de cualquier capa y
// nunca falla ella misma.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dropDatabas3/keybox/internal/domain/repository"
)

// Kind es la variante cerrada de falla. La traducción a HTTP es un switch
// exhaustivo sobre Kind: no hay jerarquía de excepciones ni catch-chains.
type Kind int

const (
	// Transport-shape: siempre causadas por el cliente.
	KindMalformedBody    Kind = iota + 1 // body ilegible
	KindMethodNotAllowed                 // método no soportado en ruta conocida
	KindUnsupportedMedia                 // content type no soportado
	KindUnknownRoute                     // ruta inexistente

	// Validación de campos (agregada, no fail-fast).
	KindValidation

	// Dominio.
	KindBadRequest // ej: count de data-type malformado
	KindNotFound
	KindConflict // ej: email duplicado

	// Seguridad.
	KindUnauthorized // toda falla de autenticación colapsa acá
	KindForbidden    // autenticado pero sin permisos

	// Todo lo demás.
	KindInternal
)

// Mensajes fijos del contrato. Los kinds de dominio y Forbidden llevan el
// mensaje que aporta quien levanta el error.
const (
	MsgMalformedBody    = "Message is not formatted properly"
	MsgMethodNotAllowed = "Method not allowed for given route"
	MsgUnsupportedMedia = "MediaType Not Supported"
	MsgUnknownRoute     = "Given route does not exist"
	MsgUnauthorized     = "User cannot be authenticated"
	MsgValidation       = "Validation failed for one or more fields"
	MsgInternal         = "An internal error occurred"
)

// Error es la falla tipada que viaja por el request path hasta la capa de
// traducción. Err (causa) es sólo para logs; jamás se serializa al cliente.
type Error struct {
	Kind    Kind
	Message string
	Sub     []SubError // sólo KindValidation
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind.label(), e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind.label(), e.Message)
}

// Unwrap permite acceder a la causa original.
func (e *Error) Unwrap() error { return e.Err }

// ---------------------------------------------------------------------------------
// Constructores por variante
// ---------------------------------------------------------------------------------

// BadRequest crea una falla de dominio 400 con mensaje propio.
func BadRequest(msg string) *Error { return &Error{Kind: KindBadRequest, Message: msg} }

// NotFound crea una falla de dominio 404 con mensaje propio.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Conflict crea una falla de dominio 409 con mensaje propio.
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// Unauthorized crea la falla fija de autenticación (401). El motivo real va
// en cause, sólo para logs: el cliente recibe siempre el mismo mensaje para
// no filtrar si el token era malo o la cuenta desapareció.
func Unauthorized(cause error) *Error {
	return &Error{Kind: KindUnauthorized, Message: MsgUnauthorized, Err: cause}
}

// Forbidden crea una falla de autorización (403) con mensaje del caller.
func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

// MalformedBody crea la falla fija de body ilegible (400).
func MalformedBody(cause error) *Error {
	return &Error{Kind: KindMalformedBody, Message: MsgMalformedBody, Err: cause}
}

// UnsupportedMedia crea la falla fija de content type (415).
func UnsupportedMedia() *Error {
	return &Error{Kind: KindUnsupportedMedia, Message: MsgUnsupportedMedia}
}

// UnknownRoute crea la falla fija de ruta inexistente (400).
func UnknownRoute() *Error {
	return &Error{Kind: KindUnknownRoute, Message: MsgUnknownRoute}
}

// MethodNotAllowed crea la falla fija de método no soportado (405).
func MethodNotAllowed() *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: MsgMethodNotAllowed}
}

// Validation agrega las fallas de campo en una sola respuesta 400.
func Validation(sub []SubError) *Error {
	return &Error{Kind: KindValidation, Message: MsgValidation, Sub: sub}
}

// Internal envuelve una falla sin clasificar. El detalle queda en la causa.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: cause}
}

// FromError normaliza cualquier error a *Error.
// Reconoce los sentinels del repositorio; lo no clasificado es interno.
func FromError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NotFound("Requested resource was not found")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return Conflict("Email is already registered")
	default:
		return Internal(err)
	}
}

// ---------------------------------------------------------------------------------
// Traducción Kind -> HTTP
// ---------------------------------------------------------------------------------

// status retorna el código HTTP de la variante. El switch es exhaustivo.
func (k Kind) status() int {
	switch k {
	case KindMalformedBody, KindUnknownRoute, KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// label retorna la etiqueta de status que viaja en el JSON.
func (k Kind) label() string {
	switch k.status() {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
