// Package domainerr defines the typed error taxonomy shared by repositories
// and services. Handlers translate these into HTTP responses; nothing else in
// the system inspects raw storage errors.
package domainerr

import (
	"errors"
	"fmt"
)

// ValidationError: the caller supplied invalid input. Recoverable by
// correcting the input; never retried automatically.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError: a referenced entity does not exist.
type NotFoundError struct {
	Entidad string
}

func (e *NotFoundError) Error() string { return e.Entidad + " no encontrado" }

func NotFound(entidad string) error { return &NotFoundError{Entidad: entidad} }

// InsufficientStockError names the offending product and the shortfall.
type InsufficientStockError struct {
	Producto   string
	Solicitado int
	Disponible int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: solicitado %d, disponible %d",
		e.Producto, e.Solicitado, e.Disponible)
}

// DuplicateKeyError: a unique constraint was violated. Carries a
// domain-specific message, never the raw storage error.
type DuplicateKeyError struct {
	Campo string
}

func (e *DuplicateKeyError) Error() string { return "ya existe un registro con ese " + e.Campo }

func Duplicate(campo string) error { return &DuplicateKeyError{Campo: campo} }

// InvariantViolation: internal consistency failure, e.g. the FIFO engine asked
// to consume more than the lots hold while the stock aggregate said otherwise.
// Must never be silently swallowed — it signals drift between the aggregate
// and the lot store and aborts the operation.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return "violacion de invariante: " + e.Msg }

func Invariant(format string, args ...interface{}) error {
	return &InvariantViolation{Msg: fmt.Sprintf(format, args...)}
}

// ErrVentaAnulada rejects re-voiding an already voided sale. The transition
// emitida → anulada is terminal and never re-entrant.
var ErrVentaAnulada = errors.New("la venta ya está anulada")

// IsValidation reports whether err is caller-correctable input.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a missing-entity error.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
