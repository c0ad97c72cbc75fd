package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

// TimelineQuery filtros y paginación para el feed del libro. Todos los filtros
// son opcionales e independientes (AND). Page es 1-based.
type TimelineQuery struct {
	BranchID        string
	ItemID          string
	Type            string
	ReferenceType   string
	DeductionReason string
	DateFrom        *time.Time
	DateTo          *time.Time
	Page            int
	Limit           int
}

// LedgerEntryDTO asiento del libro para presentación. Los objetos unidos
// (item/branch/user) van en null cuando el destino del join ya no existe.
type LedgerEntryDTO struct {
	ID                int64           `json:"id"`
	BusinessID        string          `json:"business_id"`
	BranchID          string          `json:"branch_id,omitempty"`
	ItemID            string          `json:"item_id"`
	Type              string          `json:"transaction_type"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit"`
	DeductionReason   string          `json:"deduction_reason,omitempty"`
	ReferenceType     string          `json:"reference_type,omitempty"`
	ReferenceID       string          `json:"reference_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	PerformedBy       string          `json:"performed_by,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	QuantityBefore    decimal.Decimal `json:"quantity_before"`
	QuantityAfter     decimal.Decimal `json:"quantity_after"`
	CostPerUnitAtTime decimal.Decimal `json:"cost_per_unit_at_time"`

	Item   *ItemRefDTO   `json:"item"`
	Branch *BranchRefDTO `json:"branch"`
	User   *UserRefDTO   `json:"user"`
}

// ItemRefDTO, BranchRefDTO y UserRefDTO campos de display unidos.
type ItemRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

type BranchRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewLedgerEntryDTO mapea la entidad al DTO de presentación.
func NewLedgerEntryDTO(e *entity.LedgerEntry) LedgerEntryDTO {
	branchID, _ := e.Scope.BranchID()
	out := LedgerEntryDTO{
		ID:                e.ID,
		BusinessID:        e.BusinessID,
		BranchID:          branchID,
		ItemID:            e.ItemID,
		Type:              string(e.Type),
		Quantity:          e.Quantity,
		Unit:              e.Unit,
		DeductionReason:   string(e.DeductionReason),
		ReferenceType:     e.ReferenceType,
		ReferenceID:       e.ReferenceID,
		Notes:             e.Notes,
		PerformedBy:       e.PerformedBy,
		CreatedAt:         e.CreatedAt,
		QuantityBefore:    e.QuantityBefore,
		QuantityAfter:     e.QuantityAfter,
		CostPerUnitAtTime: e.CostPerUnitAtTime,
	}
	if e.Item != nil {
		out.Item = &ItemRefDTO{ID: e.Item.ID, Name: e.Item.Name, SKU: e.Item.SKU}
	}
	if e.Branch != nil {
		out.Branch = &BranchRefDTO{ID: e.Branch.ID, Name: e.Branch.Name}
	}
	if e.User != nil {
		out.User = &UserRefDTO{ID: e.User.ID, Name: e.User.Name}
	}
	return out
}

// TimelineResult página del feed del libro.
type TimelineResult struct {
	Transactions []LedgerEntryDTO `json:"transactions"`
	Total        int              `json:"total"`
	Page         int              `json:"page"`
	Limit        int              `json:"limit"`
	HasMore      bool             `json:"has_more"`
}

// ReasonCountDTO frecuencia de un motivo de deducción.
type ReasonCountDTO struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// TimelineStatsDTO estadísticas del día, la semana y top de motivos (30 días).
type TimelineStatsDTO struct {
	TodayTransactions   int              `json:"today_transactions"`
	TodayAdditions      int              `json:"today_additions"`
	TodayDeductions     int              `json:"today_deductions"`
	WeekTransactions    int              `json:"week_transactions"`
	TopDeductionReasons []ReasonCountDTO `json:"top_deduction_reasons"`
}
