package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrAlreadyRated       = errors.New("la orden de compra ya fue calificada")
)

// TransitionError detalla una transición ilegal: entidad y par origen/destino.
// errors.Is(err, ErrInvalidTransition) == true.
type TransitionError struct {
	Entity string // "purchase_order" | "requisition"
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transición inválida de %s: %s → %s", e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ForbiddenActionError detalla un rechazo de autorización: rol del actor,
// acción intentada y roles que sí pueden ejecutarla.
// errors.Is(err, ErrForbidden) == true.
type ForbiddenActionError struct {
	Role     string
	Action   string
	Required []string
}

func (e *ForbiddenActionError) Error() string {
	return fmt.Sprintf("rol %q no puede ejecutar %q (requiere: %v)", e.Role, e.Action, e.Required)
}

func (e *ForbiddenActionError) Unwrap() error { return ErrForbidden }

// FieldError error de validación a nivel de campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa errores de campo (HTTP 422).
// errors.Is(err, ErrInvalidInput) == true.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("validación: %s %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("validación fallida (%d campos)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError helper para un solo campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
