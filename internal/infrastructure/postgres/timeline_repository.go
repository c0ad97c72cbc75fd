package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

var _ repository.TimelineRepository = (*TimelineRepo)(nil)

// TimelineRepo consultas de solo lectura sobre el libro. Corre con el pool
// (read-committed basta: el feed tolera convivir con escrituras en vuelo).
type TimelineRepo struct {
	pool *pgxpool.Pool
}

// NewTimelineRepository construye el adaptador de lectura del libro.
func NewTimelineRepository(pool *pgxpool.Pool) *TimelineRepo {
	return &TimelineRepo{pool: pool}
}

// buildTimelineWhere arma el WHERE dinámico con placeholders posicionales.
// Todos los filtros son opcionales y se combinan con AND.
func buildTimelineWhere(businessID string, f repository.TimelineFilter) (string, []any) {
	where := " WHERE e.business_id = $1"
	args := []any{businessID}
	pos := 2
	add := func(cond string, v any) {
		where += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, v)
		pos++
	}
	if f.BranchID != "" {
		add("e.branch_id = $%d", f.BranchID)
	}
	if f.ItemID != "" {
		add("e.item_id = $%d", f.ItemID)
	}
	if f.Type != "" {
		add("e.transaction_type = $%d", string(f.Type))
	}
	if f.ReferenceType != "" {
		add("e.reference_type = $%d", f.ReferenceType)
	}
	if f.DeductionReason != "" {
		add("e.deduction_reason = $%d", string(f.DeductionReason))
	}
	if f.DateFrom != nil {
		add("e.created_at >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("e.created_at <= $%d", *f.DateTo)
	}
	return where, args
}

// List asientos filtrados con los campos de display unidos. LEFT JOIN: un
// ítem/sucursal/usuario borrado deja el campo en nil, nunca tumba la consulta.
func (r *TimelineRepo) List(ctx context.Context, businessID string, f repository.TimelineFilter, limit, offset int) ([]*entity.LedgerEntry, error) {
	where, args := buildTimelineWhere(businessID, f)
	query := `
		SELECT e.id, e.business_id, e.branch_id, e.item_id, e.transaction_type, e.quantity, e.unit,
		       e.deduction_reason, e.reference_type, e.reference_id, e.notes, e.performed_by,
		       e.created_at, e.quantity_before, e.quantity_after, e.cost_per_unit_at_time,
		       i.id, i.name, i.sku,
		       b.id, b.name,
		       u.id, u.name
		FROM ledger_entries e
		LEFT JOIN items    i ON i.id = e.item_id
		LEFT JOIN branches b ON b.id = e.branch_id
		LEFT JOIN users    u ON u.id = e.performed_by` + where +
		fmt.Sprintf(" ORDER BY e.created_at DESC, e.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewPersistenceError("timeline.list", businessID, err)
	}
	defer rows.Close()

	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var branchID, reason, refType, refID, notes, performedBy *string
		var txType string
		var itemID, itemName, itemSKU *string
		var joinBranchID, branchName *string
		var userID, userName *string
		if err := rows.Scan(
			&e.ID, &e.BusinessID, &branchID, &e.ItemID, &txType, &e.Quantity, &e.Unit,
			&reason, &refType, &refID, &notes, &performedBy,
			&e.CreatedAt, &e.QuantityBefore, &e.QuantityAfter, &e.CostPerUnitAtTime,
			&itemID, &itemName, &itemSKU,
			&joinBranchID, &branchName,
			&userID, &userName,
		); err != nil {
			return nil, domain.NewPersistenceError("timeline.list scan", businessID, err)
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
		if itemID != nil {
			e.Item = &entity.ItemRef{ID: *itemID, Name: deref(itemName), SKU: deref(itemSKU)}
		}
		if joinBranchID != nil {
			e.Branch = &entity.BranchRef{ID: *joinBranchID, Name: deref(branchName)}
		}
		if userID != nil {
			e.User = &entity.UserRef{ID: *userID, Name: deref(userName)}
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Count total de asientos que cumplen el filtro, ignorando paginación.
func (r *TimelineRepo) Count(ctx context.Context, businessID string, f repository.TimelineFilter) (int, error) {
	where, args := buildTimelineWhere(businessID, f)
	query := `SELECT COUNT(*) FROM ledger_entries e` + where
	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, domain.NewPersistenceError("timeline.count", businessID, err)
	}
	return total, nil
}

// CountByClass total, altas y bajas en la ventana [from, to).
func (r *TimelineRepo) CountByClass(ctx context.Context, businessID, branchID string, from, to time.Time) (repository.ClassCounts, error) {
	additions := typeStrings(entity.AdditionTypes)
	deductions := typeStrings(entity.DeductionTypes)

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE transaction_type = ANY($2)),
		       COUNT(*) FILTER (WHERE transaction_type = ANY($3))
		FROM ledger_entries
		WHERE business_id = $1 AND created_at >= $4 AND created_at < $5`
	args := []any{businessID, additions, deductions, from, to}
	if branchID != "" {
		query += ` AND branch_id = $6`
		args = append(args, branchID)
	}

	var c repository.ClassCounts
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.Total, &c.Additions, &c.Deductions); err != nil {
		return repository.ClassCounts{}, domain.NewPersistenceError("timeline.count_by_class", businessID, err)
	}
	return c, nil
}

// TopDeductionReasons motivos de manual_deduction más frecuentes desde from.
// Orden determinista: frecuencia DESC, motivo ASC.
func (r *TimelineRepo) TopDeductionReasons(ctx context.Context, businessID, branchID string, from time.Time, limit int) ([]repository.ReasonCount, error) {
	query := `
		SELECT deduction_reason, COUNT(*) AS uses
		FROM ledger_entries
		WHERE business_id = $1
		  AND transaction_type = $2
		  AND deduction_reason IS NOT NULL
		  AND created_at >= $3`
	args := []any{businessID, string(entity.TxManualDeduction), from}
	if branchID != "" {
		query += ` AND branch_id = $4`
		args = append(args, branchID)
	}
	query += fmt.Sprintf(`
		GROUP BY deduction_reason
		ORDER BY uses DESC, deduction_reason ASC
		LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewPersistenceError("timeline.top_reasons", businessID, err)
	}
	defer rows.Close()

	var results []repository.ReasonCount
	for rows.Next() {
		var reason string
		var count int
		if err := rows.Scan(&reason, &count); err != nil {
			return nil, domain.NewPersistenceError("timeline.top_reasons scan", businessID, err)
		}
		results = append(results, repository.ReasonCount{
			Reason: entity.DeductionReason(reason),
			Count:  count,
		})
	}
	return results, rows.Err()
}

func typeStrings(types []entity.TransactionType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
