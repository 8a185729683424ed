package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto (ej: email duplicado, unique violation).
	ErrConflict = errors.New("conflict")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// ResourceNotFoundError describe qué recurso faltó y por qué campo se buscó.
// Un Value nil se imprime como "null".
type ResourceNotFoundError struct {
	Resource string
	Field    string
	Value    any
}

// NewResourceNotFound es un atajo para construir el error.
func NewResourceNotFound(resource, field string, value any) *ResourceNotFoundError {
	return &ResourceNotFoundError{Resource: resource, Field: field, Value: value}
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s : '%s'", e.Resource, e.Field, renderValue(e.Value))
}

func (e *ResourceNotFoundError) Unwrap() error { return ErrNotFound }

func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case *string:
		if x == nil {
			return "null"
		}
		return *x
	case *int64:
		if x == nil {
			return "null"
		}
		return fmt.Sprint(*x)
	default:
		return fmt.Sprint(x)
	}
}

// BadRequestError es un rechazo por datos del cliente (email en uso,
// redirect_uri no autorizado). Se responde 400 con Message.
type BadRequestError struct {
	Message string
}

func NewBadRequest(format string, args ...any) *BadRequestError {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

func (e *BadRequestError) Error() string { return e.Message }

// IsBadRequest verifica si el error es un *BadRequestError.
func IsBadRequest(err error) bool {
	var br *BadRequestError
	return errors.As(err, &br)
}
