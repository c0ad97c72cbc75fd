package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tipo de transacción del libro de inventario (conjunto cerrado).
type TransactionType string

const (
	TxManualAddition    TransactionType = "manual_addition"
	TxManualDeduction   TransactionType = "manual_deduction"
	TxTransferIn        TransactionType = "transfer_in"
	TxTransferOut       TransactionType = "transfer_out"
	TxOrderSale         TransactionType = "order_sale"
	TxOrderVoidReturn   TransactionType = "order_void_return"
	TxPOReceive         TransactionType = "po_receive"
	TxProductionConsume TransactionType = "production_consume"
	TxProductionYield   TransactionType = "production_yield"
	TxCountAdjustment   TransactionType = "inventory_count_adjustment"
)

// transactionDirections signo del efecto sobre la cantidad por tipo.
// inventory_count_adjustment puede ir en ambos sentidos: la dirección real la
// fijan los snapshots quantity_before/quantity_after del asiento.
var transactionDirections = map[TransactionType]int{
	TxManualAddition:    +1,
	TxManualDeduction:   -1,
	TxTransferIn:        +1,
	TxTransferOut:       -1,
	TxOrderSale:         -1,
	TxOrderVoidReturn:   +1,
	TxPOReceive:         +1,
	TxProductionConsume: -1,
	TxProductionYield:   +1,
}

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t TransactionType) Valid() bool {
	if t == TxCountAdjustment {
		return true
	}
	_, ok := transactionDirections[t]
	return ok
}

// Direction devuelve +1 o -1 según el tipo. Para inventory_count_adjustment
// devuelve 0: la dirección la deciden los snapshots del asiento.
func (t TransactionType) Direction() int {
	return transactionDirections[t]
}

// IsAddition / IsDeduction clasifican el tipo para estadísticas diarias.
func (t TransactionType) IsAddition() bool { return transactionDirections[t] == +1 }

func (t TransactionType) IsDeduction() bool { return transactionDirections[t] == -1 }

// AdditionTypes y DeductionTypes agrupan los tipos por signo (para estadísticas).
var (
	AdditionTypes = []TransactionType{
		TxManualAddition, TxPOReceive, TxTransferIn, TxProductionYield, TxOrderVoidReturn,
	}
	DeductionTypes = []TransactionType{
		TxManualDeduction, TxOrderSale, TxTransferOut, TxProductionConsume,
	}
)

// DeductionReason motivo categorizado de una deducción manual (conjunto cerrado).
type DeductionReason string

const (
	ReasonExpired DeductionReason = "expired"
	ReasonDamaged DeductionReason = "damaged"
	ReasonSpoiled DeductionReason = "spoiled"
	ReasonOthers  DeductionReason = "others"
)

// Valid indica si el motivo pertenece al conjunto cerrado.
func (r DeductionReason) Valid() bool {
	switch r {
	case ReasonExpired, ReasonDamaged, ReasonSpoiled, ReasonOthers:
		return true
	}
	return false
}

// Tipos de referencia al objeto de negocio que originó el movimiento.
const (
	RefOrder         = "order"
	RefPurchaseOrder = "purchase_order"
	RefTransfer      = "transfer"
	RefProduction    = "production"
	RefCount         = "count"
	RefManual        = "manual"
)

// LedgerEntry un registro inmutable del libro de inventario. Nunca se actualiza
// ni se borra; las correcciones se hacen insertando un asiento compensatorio
// (ej. order_void_return). QuantityBefore/After son la foto autoritativa del
// stock al momento de aplicarse el movimiento.
type LedgerEntry struct {
	ID                int64
	BusinessID        string
	Scope             Scope // sucursal o pool de negocio
	ItemID            string
	Type              TransactionType
	Quantity          decimal.Decimal // magnitud siempre positiva; el signo lo da el tipo
	Unit              string
	DeductionReason   DeductionReason // vacío salvo en deducciones manuales
	ReferenceType     string
	ReferenceID       string
	Notes             string
	PerformedBy       string // vacío = generado por el sistema
	CreatedAt         time.Time
	QuantityBefore    decimal.Decimal
	QuantityAfter     decimal.Decimal
	CostPerUnitAtTime decimal.Decimal

	// Campos de presentación poblados por el join del timeline; nil = no presente
	// (ej. usuario borrado). Su ausencia nunca es un error.
	Item   *ItemRef
	Branch *BranchRef
	User   *UserRef
}

// SignedQuantity cantidad con el signo del tipo aplicado.
func (e *LedgerEntry) SignedQuantity() decimal.Decimal {
	if e.Type.Direction() < 0 {
		return e.Quantity.Neg()
	}
	if e.Type == TxCountAdjustment && e.QuantityAfter.LessThan(e.QuantityBefore) {
		return e.Quantity.Neg()
	}
	return e.Quantity
}

// ConsistentSnapshot verifica el invariante quantity_after == quantity_before ± quantity.
func (e *LedgerEntry) ConsistentSnapshot() bool {
	return e.QuantityBefore.Add(e.SignedQuantity()).Equal(e.QuantityAfter) &&
		!e.QuantityAfter.IsNegative()
}

// ItemRef, BranchRef y UserRef campos de presentación unidos desde sus tablas.
type ItemRef struct {
	ID   string
	Name string
	SKU  string
}

type BranchRef struct {
	ID   string
	Name string
}

type UserRef struct {
	ID   string
	Name string
}
