package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrMissingCode       = errors.New("línea sin código de producto")
	ErrUnsafeReversal    = errors.New("existen movimientos posteriores")
	ErrNothingToReverse  = errors.New("no hay movimientos para revertir")
)

// Code devuelve el código estable (para APIs y UI) asociado a un error de dominio.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrMissingCode):
		return "MISSING_CODE"
	case errors.Is(err, ErrUnsafeReversal):
		return "UNSAFE_REVERSAL"
	case errors.Is(err, ErrNothingToReverse):
		return "NOTHING_TO_REVERSE"
	case errors.Is(err, ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, ErrDuplicate):
		return "DUPLICATE"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	default:
		return "INTERNAL"
	}
}
