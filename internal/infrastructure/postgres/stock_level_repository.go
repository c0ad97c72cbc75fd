package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL
// (usable con pool o tx). La clave lógica es (business_id, item_id, branch_id)
// con branch_id NULL para el pool de negocio; el índice único usa
// COALESCE(branch_id, '') para que el caso NULL también sea único.
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const stockLevelColumns = `business_id, item_id, branch_id, quantity, reserved_quantity, held_quantity, min_quantity, updated_at`

func scanStockLevel(row pgx.Row) (*entity.StockLevel, error) {
	var s entity.StockLevel
	var branchID *string
	err := row.Scan(&s.BusinessID, &s.ItemID, &branchID, &s.Quantity,
		&s.ReservedQuantity, &s.HeldQuantity, &s.MinQuantity, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if branchID != nil {
		s.Scope = entity.BranchScope(*branchID)
	} else {
		s.Scope = entity.BusinessScope()
	}
	return &s, nil
}

// zeroLevel fila "nunca se movió" para una clave sin registro.
func zeroLevel(businessID, itemID string, scope entity.Scope) *entity.StockLevel {
	return &entity.StockLevel{
		BusinessID:       businessID,
		ItemID:           itemID,
		Scope:            scope,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
		HeldQuantity:     decimal.Zero,
		MinQuantity:      decimal.Zero,
	}
}

// Get obtiene la fila de la clave; ausencia devuelve fila en cero, no error.
func (r *StockLevelRepo) Get(businessID, itemID string, scope entity.Scope) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels
		WHERE business_id = $1 AND item_id = $2
		  AND COALESCE(branch_id, '') = COALESCE($3::text, '')`
	level, err := scanStockLevel(r.q.QueryRow(context.Background(), query, businessID, itemID, branchParam(scope)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zeroLevel(businessID, itemID, scope), nil
		}
		return nil, domain.NewPersistenceError("stock.get", scopeKey(businessID, itemID, scope), err)
	}
	return level, nil
}

// GetForUpdate asegura que la fila exista y la bloquea con SELECT FOR UPDATE.
// El INSERT previo cierra el hueco del primer movimiento: FOR UPDATE sobre una
// fila inexistente no bloquea nada, así que dos primeras escrituras
// concurrentes podrían colarse sin él.
func (r *StockLevelRepo) GetForUpdate(businessID, itemID string, scope entity.Scope) (*entity.StockLevel, error) {
	ctx := context.Background()
	branch := branchParam(scope)
	key := scopeKey(businessID, itemID, scope)

	insert := `
		INSERT INTO stock_levels (business_id, item_id, branch_id, quantity, reserved_quantity, held_quantity, min_quantity, updated_at)
		VALUES ($1, $2, $3, 0, 0, 0, 0, now())
		ON CONFLICT (business_id, item_id, COALESCE(branch_id, '')) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, businessID, itemID, branch); err != nil {
		return nil, domain.NewPersistenceError("stock.ensure", key, err)
	}

	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels
		WHERE business_id = $1 AND item_id = $2
		  AND COALESCE(branch_id, '') = COALESCE($3::text, '')
		FOR UPDATE`
	level, err := scanStockLevel(r.q.QueryRow(ctx, query, businessID, itemID, branch))
	if err != nil {
		return nil, domain.NewPersistenceError("stock.lock", key, err)
	}
	return level, nil
}

// Upsert inserta o actualiza cantidad y updated_at; al crear, las
// sub-cantidades y el mínimo quedan en cero. No pisa reserved/held/min en
// filas existentes.
func (r *StockLevelRepo) Upsert(level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (business_id, item_id, branch_id, quantity, reserved_quantity, held_quantity, min_quantity, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, 0, now())
		ON CONFLICT (business_id, item_id, COALESCE(branch_id, ''))
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		level.BusinessID, level.ItemID, branchParam(level.Scope), level.Quantity)
	if err != nil {
		return domain.NewPersistenceError("stock.upsert", scopeKey(level.BusinessID, level.ItemID, level.Scope), err)
	}
	return nil
}

// UpdateQuantity sobreescritura directa de quantity (upsert por clave).
func (r *StockLevelRepo) UpdateQuantity(businessID, itemID string, scope entity.Scope, quantity decimal.Decimal) error {
	query := `
		INSERT INTO stock_levels (business_id, item_id, branch_id, quantity, reserved_quantity, held_quantity, min_quantity, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, 0, now())
		ON CONFLICT (business_id, item_id, COALESCE(branch_id, ''))
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, businessID, itemID, branchParam(scope), quantity)
	if err != nil {
		return domain.NewPersistenceError("stock.update_quantity", scopeKey(businessID, itemID, scope), err)
	}
	return nil
}

// ListBelowMinimum filas con quantity < min_quantity. branchID vacío = todas.
func (r *StockLevelRepo) ListBelowMinimum(ctx context.Context, businessID, branchID string) ([]*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels
		WHERE business_id = $1 AND min_quantity > 0 AND quantity < min_quantity`
	args := []any{businessID}
	if branchID != "" {
		query += ` AND branch_id = $2`
		args = append(args, branchID)
	}
	query += ` ORDER BY item_id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewPersistenceError("stock.list_below_min", businessID, err)
	}
	defer rows.Close()

	var list []*entity.StockLevel
	for rows.Next() {
		level, err := scanStockLevel(rows)
		if err != nil {
			return nil, domain.NewPersistenceError("stock.list_below_min", businessID, err)
		}
		list = append(list, level)
	}
	return list, rows.Err()
}
