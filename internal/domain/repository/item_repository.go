package repository

import "github.com/jhoicas/resto-ledger/internal/domain/entity"

// ItemRepository lookup de metadatos del ítem (colaborador externo del motor:
// unidad y costo por defecto cuando no hay StockLevel todavía).
type ItemRepository interface {
	// GetByID devuelve el ítem o nil si no existe.
	GetByID(businessID, itemID string) (*entity.Item, error)
}
