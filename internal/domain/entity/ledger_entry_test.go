package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionTypeValid(t *testing.T) {
	valid := []TransactionType{
		TxManualAddition, TxManualDeduction, TxTransferIn, TxTransferOut,
		TxOrderSale, TxOrderVoidReturn, TxPOReceive,
		TxProductionConsume, TxProductionYield, TxCountAdjustment,
	}
	for _, tt := range valid {
		assert.True(t, tt.Valid(), "tipo %q debería ser válido", tt)
	}

	assert.False(t, TransactionType("").Valid())
	assert.False(t, TransactionType("venta").Valid())
	assert.False(t, TransactionType("MANUAL_ADDITION").Valid())
}

func TestTransactionTypeDirection(t *testing.T) {
	assert.Equal(t, +1, TxManualAddition.Direction())
	assert.Equal(t, +1, TxPOReceive.Direction())
	assert.Equal(t, +1, TxOrderVoidReturn.Direction())
	assert.Equal(t, -1, TxManualDeduction.Direction())
	assert.Equal(t, -1, TxOrderSale.Direction())
	assert.Equal(t, -1, TxProductionConsume.Direction())

	// El ajuste por conteo no tiene signo propio: lo fijan los snapshots
	assert.Equal(t, 0, TxCountAdjustment.Direction())
}

func TestSignedQuantity(t *testing.T) {
	add := &LedgerEntry{Type: TxPOReceive, Quantity: decimal.NewFromInt(5)}
	assert.True(t, add.SignedQuantity().Equal(decimal.NewFromInt(5)))

	deduct := &LedgerEntry{Type: TxOrderSale, Quantity: decimal.NewFromInt(5)}
	assert.True(t, deduct.SignedQuantity().Equal(decimal.NewFromInt(-5)))

	// Conteo hacia abajo: 10 -> 8 implica -2
	countDown := &LedgerEntry{
		Type:           TxCountAdjustment,
		Quantity:       decimal.NewFromInt(2),
		QuantityBefore: decimal.NewFromInt(10),
		QuantityAfter:  decimal.NewFromInt(8),
	}
	assert.True(t, countDown.SignedQuantity().Equal(decimal.NewFromInt(-2)))

	// Conteo hacia arriba: 10 -> 12 implica +2
	countUp := &LedgerEntry{
		Type:           TxCountAdjustment,
		Quantity:       decimal.NewFromInt(2),
		QuantityBefore: decimal.NewFromInt(10),
		QuantityAfter:  decimal.NewFromInt(12),
	}
	assert.True(t, countUp.SignedQuantity().Equal(decimal.NewFromInt(2)))
}

func TestConsistentSnapshot(t *testing.T) {
	ok := &LedgerEntry{
		Type:           TxManualDeduction,
		Quantity:       decimal.NewFromInt(3),
		QuantityBefore: decimal.NewFromInt(10),
		QuantityAfter:  decimal.NewFromInt(7),
	}
	assert.True(t, ok.ConsistentSnapshot())

	mismatch := &LedgerEntry{
		Type:           TxManualDeduction,
		Quantity:       decimal.NewFromInt(3),
		QuantityBefore: decimal.NewFromInt(10),
		QuantityAfter:  decimal.NewFromInt(6),
	}
	assert.False(t, mismatch.ConsistentSnapshot())

	negative := &LedgerEntry{
		Type:           TxManualDeduction,
		Quantity:       decimal.NewFromInt(3),
		QuantityBefore: decimal.NewFromInt(1),
		QuantityAfter:  decimal.NewFromInt(-2),
	}
	assert.False(t, negative.ConsistentSnapshot())
}

func TestDeductionReasonValid(t *testing.T) {
	for _, r := range []DeductionReason{ReasonExpired, ReasonDamaged, ReasonSpoiled, ReasonOthers} {
		assert.True(t, r.Valid(), "motivo %q debería ser válido", r)
	}
	assert.False(t, DeductionReason("").Valid())
	assert.False(t, DeductionReason("lost").Valid())
}

func TestScope(t *testing.T) {
	biz := BusinessScope()
	assert.False(t, biz.IsBranch())
	assert.Equal(t, "business", biz.String())
	id, ok := biz.BranchID()
	assert.False(t, ok)
	assert.Empty(t, id)

	br := BranchScope("suc-1")
	assert.True(t, br.IsBranch())
	assert.Equal(t, "branch:suc-1", br.String())
	id, ok = br.BranchID()
	assert.True(t, ok)
	assert.Equal(t, "suc-1", id)

	// ScopeFrom: cadena vacía = pool de negocio
	assert.Equal(t, biz, ScopeFrom(""))
	assert.Equal(t, br, ScopeFrom("suc-1"))
}

func TestStockLevelBelowMinimum(t *testing.T) {
	low := &StockLevel{Quantity: decimal.NewFromInt(2), MinQuantity: decimal.NewFromInt(5)}
	assert.True(t, low.BelowMinimum())

	ok := &StockLevel{Quantity: decimal.NewFromInt(5), MinQuantity: decimal.NewFromInt(5)}
	assert.False(t, ok.BelowMinimum())

	// Sin mínimo configurado nunca se reporta
	noMin := &StockLevel{Quantity: decimal.Zero, MinQuantity: decimal.Zero}
	assert.False(t, noMin.BelowMinimum())
}
