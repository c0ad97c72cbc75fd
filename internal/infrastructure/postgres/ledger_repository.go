package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo escritura append-only del libro sobre PostgreSQL (usable con pool
// o tx). La tabla no tiene UPDATE ni DELETE en ningún camino de código.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create inserta el asiento y asigna el ID monotónico de la secuencia.
func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (
			business_id, branch_id, item_id, transaction_type, quantity, unit,
			deduction_reason, reference_type, reference_id, notes, performed_by,
			created_at, quantity_before, quantity_after, cost_per_unit_at_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		entry.BusinessID, branchParam(entry.Scope), entry.ItemID, string(entry.Type),
		entry.Quantity, entry.Unit,
		nullIfEmpty(string(entry.DeductionReason)), nullIfEmpty(entry.ReferenceType),
		nullIfEmpty(entry.ReferenceID), nullIfEmpty(entry.Notes), nullIfEmpty(entry.PerformedBy),
		entry.CreatedAt, entry.QuantityBefore, entry.QuantityAfter, entry.CostPerUnitAtTime,
	).Scan(&entry.ID)
	if err != nil {
		return domain.NewPersistenceError("ledger.create", scopeKey(entry.BusinessID, entry.ItemID, entry.Scope), err)
	}
	return nil
}

// GetByID obtiene un asiento por ID, o nil si no existe.
func (r *LedgerRepo) GetByID(businessID string, id int64) (*entity.LedgerEntry, error) {
	query := `
		SELECT id, business_id, branch_id, item_id, transaction_type, quantity, unit,
		       deduction_reason, reference_type, reference_id, notes, performed_by,
		       created_at, quantity_before, quantity_after, cost_per_unit_at_time
		FROM ledger_entries
		WHERE business_id = $1 AND id = $2`
	entry, err := scanLedgerEntry(r.q.QueryRow(context.Background(), query, businessID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewPersistenceError("ledger.get", businessID+"/"+strconv.FormatInt(id, 10), err)
	}
	return entry, nil
}

func scanLedgerEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var branchID, reason, refType, refID, notes, performedBy *string
	var txType string
	err := row.Scan(&e.ID, &e.BusinessID, &branchID, &e.ItemID, &txType, &e.Quantity, &e.Unit,
		&reason, &refType, &refID, &notes, &performedBy,
		&e.CreatedAt, &e.QuantityBefore, &e.QuantityAfter, &e.CostPerUnitAtTime)
	if err != nil {
		return nil, err
	}
	e.Type = entity.TransactionType(txType)
	if branchID != nil {
		e.Scope = entity.BranchScope(*branchID)
	} else {
		e.Scope = entity.BusinessScope()
	}
	if reason != nil {
		e.DeductionReason = entity.DeductionReason(*reason)
	}
	if refType != nil {
		e.ReferenceType = *refType
	}
	if refID != nil {
		e.ReferenceID = *refID
	}
	if notes != nil {
		e.Notes = *notes
	}
	if performedBy != nil {
		e.PerformedBy = *performedBy
	}
	return &e, nil
}
