package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

// StockLevelRepository acceso a la proyección de existencias. Solo el motor
// del libro escribe aquí. Usable con pool o con una transacción (Querier).
type StockLevelRepository interface {
	// Get devuelve la fila de la clave; si no existe devuelve una fila en cero
	// (ausencia = "nunca se movió", no es error).
	Get(businessID, itemID string, scope entity.Scope) (*entity.StockLevel, error)
	// GetForUpdate garantiza que la fila exista (la crea en cero si falta) y la
	// bloquea con SELECT ... FOR UPDATE. Serializa ajustes concurrentes sobre la
	// misma clave; claves distintas no contienden.
	GetForUpdate(businessID, itemID string, scope entity.Scope) (*entity.StockLevel, error)
	// Upsert inserta o actualiza cantidad y updated_at (sub-cantidades en cero al crear).
	Upsert(level *entity.StockLevel) error
	// UpdateQuantity sobreescritura directa de quantity (upsert). No es un delta:
	// el llamador debe coordinar su propia transacción si compite por la clave.
	UpdateQuantity(businessID, itemID string, scope entity.Scope, quantity decimal.Decimal) error
	// ListBelowMinimum filas con quantity < min_quantity. branchID vacío = todas
	// las sucursales y el pool de negocio.
	ListBelowMinimum(ctx context.Context, businessID, branchID string) ([]*entity.StockLevel, error)
}
