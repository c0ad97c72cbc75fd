package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo lookup de metadatos del ítem sobre PostgreSQL (usable con pool o tx).
// El motor solo lo necesita para unidad y costo por defecto.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// GetByID obtiene un ítem del negocio, o nil si no existe.
func (r *ItemRepo) GetByID(businessID, itemID string) (*entity.Item, error) {
	query := `
		SELECT id, business_id, name, sku, storage_unit, cost_per_unit, created_at
		FROM items
		WHERE business_id = $1 AND id = $2`
	var it entity.Item
	err := r.q.QueryRow(context.Background(), query, businessID, itemID).Scan(
		&it.ID, &it.BusinessID, &it.Name, &it.SKU, &it.StorageUnit, &it.CostPerUnit, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewPersistenceError("item.get", businessID+"/"+itemID, err)
	}
	return &it, nil
}
