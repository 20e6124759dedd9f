package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrForbidden    = errors.New("acceso denegado")

	// Autenticación.
	ErrUnauthorized       = errors.New("credenciales inválidas")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")

	// Máquina de estados de calidad.
	ErrInvalidTransition  = errors.New("transición de calidad no permitida")
	ErrInvalidQuantity    = errors.New("cantidad a mover inválida")
	ErrCellRequired       = errors.New("la transición requiere una celda destino")
	ErrInvalidDestination = errors.New("celda destino inválida")
	ErrReasonRequired     = errors.New("el motivo es obligatorio para esta transición")

	// Ejecutor de despachos.
	ErrInvalidSelection       = errors.New("selección de despacho inválida")
	ErrConcurrentModification = errors.New("la asignación cambió desde que se calculó el plan")
)

// AllocationError añade a un error de dominio el contexto de la asignación afectada:
// id, campo evaluado y el valor solicitado frente al disponible.
// Unwrap devuelve Kind, así que errors.Is(err, ErrInvalidQuantity) sigue funcionando.
type AllocationError struct {
	Kind         error
	AllocationID string
	Field        string
	Requested    string
	Available    string
	Detail       string
}

func (e *AllocationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.AllocationID != "" {
		fmt.Fprintf(&b, " (asignación %s)", e.AllocationID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s solicitado %s, disponible %s", e.Field, e.Requested, e.Available)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *AllocationError) Unwrap() error { return e.Kind }

// NewAllocationError construye un AllocationError sin contexto de cantidades.
func NewAllocationError(kind error, allocationID, detail string) *AllocationError {
	return &AllocationError{Kind: kind, AllocationID: allocationID, Detail: detail}
}

// NewAmountError construye un AllocationError con el campo y los valores solicitado/disponible.
func NewAmountError(kind error, allocationID, field string, requested, available fmt.Stringer) *AllocationError {
	return &AllocationError{
		Kind:         kind,
		AllocationID: allocationID,
		Field:        field,
		Requested:    requested.String(),
		Available:    available.String(),
	}
}
