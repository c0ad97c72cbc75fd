package repository

import "github.com/jhoicas/resto-ledger/internal/domain/entity"

// LedgerRepository persistencia append-only del libro de inventario.
// Create es la única escritura permitida: los asientos jamás se actualizan ni
// se borran. Usable con pool o con una transacción (Querier).
type LedgerRepository interface {
	// Create inserta el asiento y asigna ID (monotónico) y CreatedAt.
	Create(entry *entity.LedgerEntry) error
	// GetByID devuelve el asiento o nil si no existe.
	GetByID(businessID string, id int64) (*entity.LedgerEntry, error)
}
