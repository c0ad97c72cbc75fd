package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrItemNotFound = errors.New("ítem no encontrado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// ValidationError la entrada del llamador viola una regla de negocio
// (cantidad no positiva, justificación ausente, motivo inválido). Terminal:
// se devuelve tal cual al llamador y nunca se reintenta.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validación: " + e.Reason
}

// NewValidationError construye un error de validación con el motivo dado.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// InsufficientStockError una deducción dejaría la cantidad en negativo.
// Lleva la cantidad disponible y la unidad para mostrar al usuario.
type InsufficientStockError struct {
	Available decimal.Decimal
	Unit      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente. Disponible: %s %s", e.Available.String(), e.Unit)
}

// PersistenceError el almacén rechazó una lectura/escritura (violación de
// constraint, conexión caída, timeout de lock). Lleva la operación y la clave
// para poder reconstruir la transacción intentada en los logs; hacia el
// llamador se expone como fallo genérico sin internos del storage.
type PersistenceError struct {
	Op  string // operación intentada, ej. "ledger.create"
	Key string // clave afectada, ej. "negocio/ítem/alcance"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistencia %s [%s]: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError envuelve un error del storage con contexto de operación y clave.
func NewPersistenceError(op, key string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Key: key, Err: err}
}
