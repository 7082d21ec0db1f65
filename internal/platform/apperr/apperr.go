// Package apperr define los tipos de error que cruzan de servicios a HTTP.
// Los servicios devuelven *Error con un Kind; respond.Error lo traduce a status + body.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Errores de repositorio. Los servicios los traducen a un *Error con mensaje propio.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindValidation
	KindBusiness
	KindConflict
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindBusiness:
		return "business"
	case KindConflict:
		return "conflict"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation, KindBusiness:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newf(k Kind, format string, args ...any) error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error     { return newf(KindNotFound, format, args...) }
func Unauthorized(format string, args ...any) error { return newf(KindUnauthorized, format, args...) }
func Forbidden(format string, args ...any) error    { return newf(KindForbidden, format, args...) }
func Validation(format string, args ...any) error   { return newf(KindValidation, format, args...) }
func Business(format string, args ...any) error     { return newf(KindBusiness, format, args...) }
func Conflict(format string, args ...any) error     { return newf(KindConflict, format, args...) }
func TooManyRequests(format string, args ...any) error {
	return newf(KindTooManyRequests, format, args...)
}

// Internal envuelve un error inesperado. El mensaje no se expone al cliente.
func Internal(err error, msg string) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf devuelve el Kind del primer *Error en la cadena, o KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage es el texto seguro para el body de respuesta.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return "internal server error"
}
