package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scope identifica el alcance de una existencia: una sucursal concreta o el
// pool global del negocio (branch_id NULL en la tabla). Se modela como tipo
// cerrado para obligar a cada consulta a decidir explícitamente entre ambos
// casos en lugar de arrastrar un puntero opcional.
type Scope struct {
	branchID string
	branch   bool
}

// BusinessScope alcance de negocio completo (sin sucursal).
func BusinessScope() Scope { return Scope{} }

// BranchScope alcance de una sucursal concreta.
func BranchScope(branchID string) Scope {
	return Scope{branchID: branchID, branch: true}
}

// ScopeFrom construye el alcance desde un branch_id opcional (cadena vacía = pool de negocio).
func ScopeFrom(branchID string) Scope {
	if branchID == "" {
		return BusinessScope()
	}
	return BranchScope(branchID)
}

// BranchID devuelve el id de sucursal y si el alcance es de sucursal.
func (s Scope) BranchID() (string, bool) { return s.branchID, s.branch }

// IsBranch indica si el alcance es de sucursal.
func (s Scope) IsBranch() bool { return s.branch }

// String para logs: "branch:<id>" o "business".
func (s Scope) String() string {
	if s.branch {
		return "branch:" + s.branchID
	}
	return "business"
}

// StockLevel proyección de existencia actual por (negocio, ítem, alcance).
// Es una caché derivable del libro: plegando todos los LedgerEntry de la clave
// en orden de creación se obtiene Quantity. Solo la escribe el motor del libro.
type StockLevel struct {
	BusinessID       string
	ItemID           string
	Scope            Scope
	Quantity         decimal.Decimal // invariante: >= 0
	ReservedQuantity decimal.Decimal
	HeldQuantity     decimal.Decimal
	MinQuantity      decimal.Decimal
	UpdatedAt        time.Time
}

// BelowMinimum indica si la existencia está por debajo del mínimo configurado.
func (s *StockLevel) BelowMinimum() bool {
	return s.MinQuantity.IsPositive() && s.Quantity.LessThan(s.MinQuantity)
}
