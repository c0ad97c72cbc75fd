package dto

import (
	"github.com/shopspring/decimal"
)

// AddStockRequest body para POST /api/stock/add.
type AddStockRequest struct {
	ItemID   string          `json:"item_id"`
	BranchID string          `json:"branch_id,omitempty"` // vacío = pool de negocio
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes"` // justificación obligatoria
}

// DeductStockRequest body para POST /api/stock/deduct.
type DeductStockRequest struct {
	ItemID   string          `json:"item_id"`
	BranchID string          `json:"branch_id,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason"` // expired | damaged | spoiled | others
	Notes    string          `json:"notes,omitempty"`
}

// AdjustmentResponse asiento creado y nueva cantidad.
type AdjustmentResponse struct {
	Transaction LedgerEntryDTO  `json:"transaction"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// CurrentStockResponse respuesta de GET /api/stock/current.
type CurrentStockResponse struct {
	ItemID      string          `json:"item_id"`
	BranchID    string          `json:"branch_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	StorageUnit string          `json:"storage_unit"`
}

// LowStockItemDTO fila de la proyección por debajo de su mínimo.
type LowStockItemDTO struct {
	ItemID      string          `json:"item_id"`
	BranchID    string          `json:"branch_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// RecordTransactionRequest body para POST /api/inventory/transactions
// (productores upstream; los snapshots los aporta el llamador).
type RecordTransactionRequest struct {
	ItemID            string          `json:"item_id"`
	BranchID          string          `json:"branch_id,omitempty"`
	Type              string          `json:"transaction_type"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit"`
	DeductionReason   string          `json:"deduction_reason,omitempty"`
	ReferenceType     string          `json:"reference_type,omitempty"`
	ReferenceID       string          `json:"reference_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	QuantityBefore    decimal.Decimal `json:"quantity_before"`
	QuantityAfter     decimal.Decimal `json:"quantity_after"`
	CostPerUnitAtTime decimal.Decimal `json:"cost_per_unit_at_time"`
}
