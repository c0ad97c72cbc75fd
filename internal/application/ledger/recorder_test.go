package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

func newTestRecorder() (*Recorder, *memStore) {
	store := newMemStore()
	store.addItem(&entity.Item{
		ID:          testItemID,
		BusinessID:  testBusinessID,
		Name:        "Tomate chonto",
		StorageUnit: "kg",
		CostPerUnit: decimal.NewFromFloat(3.5),
	})
	rec := NewRecorder(
		&fakeLedgerRepo{store: store},
		&fakeStockRepo{store: store},
		&fakeItemRepo{store: store},
		logger.Nop(),
	)
	return rec, store
}

func TestRecord(t *testing.T) {
	rec, store := newTestRecorder()

	entry, err := rec.Record(context.Background(), RecordInput{
		BusinessID:        testBusinessID,
		Scope:             entity.BranchScope("suc-1"),
		ItemID:            testItemID,
		Type:              entity.TxOrderSale,
		Quantity:          decimal.NewFromInt(2),
		Unit:              "kg",
		ReferenceType:     entity.RefOrder,
		ReferenceID:       "order-99",
		QuantityBefore:    decimal.NewFromInt(10),
		QuantityAfter:     decimal.NewFromInt(8),
		CostPerUnitAtTime: decimal.NewFromFloat(3.5),
	})
	require.NoError(t, err)
	assert.Positive(t, entry.ID)
	assert.True(t, entry.ConsistentSnapshot())
	require.Len(t, store.entries, 1)

	// Record no toca la proyección: eso lo coordina el productor
	assert.True(t, store.quantity(testBusinessID, testItemID, entity.BranchScope("suc-1")).IsZero())
}

func TestRecordValidation(t *testing.T) {
	rec, _ := newTestRecorder()
	ctx := context.Background()

	cases := []struct {
		name string
		in   RecordInput
	}{
		{
			name: "tipo inválido",
			in:   RecordInput{BusinessID: testBusinessID, ItemID: testItemID, Type: "venta", Quantity: decimal.NewFromInt(1)},
		},
		{
			name: "cantidad cero",
			in:   RecordInput{BusinessID: testBusinessID, ItemID: testItemID, Type: entity.TxOrderSale, Quantity: decimal.Zero},
		},
		{
			name: "motivo inválido",
			in:   RecordInput{BusinessID: testBusinessID, ItemID: testItemID, Type: entity.TxManualDeduction, Quantity: decimal.NewFromInt(1), DeductionReason: "perdido"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rec.Record(ctx, tc.in)
			var ve *domain.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestGetCurrentStock(t *testing.T) {
	rec, store := newTestRecorder()
	ctx := context.Background()
	scope := entity.BranchScope("suc-1")

	// Sin fila de proyección: cero con unidad y costo del ítem
	info, err := rec.GetCurrentStock(ctx, testBusinessID, testItemID, scope)
	require.NoError(t, err)
	assert.True(t, info.Quantity.IsZero())
	assert.Equal(t, "kg", info.StorageUnit)
	assert.True(t, info.CostPerUnit.Equal(decimal.NewFromFloat(3.5)))

	// Con fila
	store.setLevel(&entity.StockLevel{
		BusinessID: testBusinessID,
		ItemID:     testItemID,
		Scope:      scope,
		Quantity:   decimal.NewFromInt(12),
	})
	info, err = rec.GetCurrentStock(ctx, testBusinessID, testItemID, scope)
	require.NoError(t, err)
	assert.True(t, info.Quantity.Equal(decimal.NewFromInt(12)))

	// Ítem inexistente
	_, err = rec.GetCurrentStock(ctx, testBusinessID, "item-fantasma", scope)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestUpdateStockQuantity(t *testing.T) {
	rec, store := newTestRecorder()
	ctx := context.Background()
	scope := entity.BusinessScope()

	err := rec.UpdateStockQuantity(ctx, testBusinessID, testItemID, decimal.NewFromInt(-1), scope)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	require.NoError(t, rec.UpdateStockQuantity(ctx, testBusinessID, testItemID, decimal.NewFromInt(20), scope))
	assert.True(t, store.quantity(testBusinessID, testItemID, scope).Equal(decimal.NewFromInt(20)))

	// Sobreescritura, no delta
	require.NoError(t, rec.UpdateStockQuantity(ctx, testBusinessID, testItemID, decimal.NewFromInt(5), scope))
	assert.True(t, store.quantity(testBusinessID, testItemID, scope).Equal(decimal.NewFromInt(5)))
}

func TestRecordInTx(t *testing.T) {
	rec, store := newTestRecorder()
	runner := &fakeTxRunner{store: store}

	err := runner.Run(context.Background(), func(
		ledgerRepo repository.LedgerRepository,
		_ repository.StockLevelRepository,
		_ repository.ItemRepository,
	) error {
		_, err := rec.RecordInTx(ledgerRepo, RecordInput{
			BusinessID:     testBusinessID,
			ItemID:         testItemID,
			Type:           entity.TxTransferOut,
			Quantity:       decimal.NewFromInt(1),
			Unit:           "kg",
			QuantityBefore: decimal.NewFromInt(5),
			QuantityAfter:  decimal.NewFromInt(4),
		})
		if err != nil {
			return err
		}
		_, err = rec.RecordInTx(ledgerRepo, RecordInput{
			BusinessID:     testBusinessID,
			ItemID:         testItemID,
			Type:           entity.TxTransferIn,
			Quantity:       decimal.NewFromInt(1),
			Unit:           "kg",
			QuantityBefore: decimal.NewFromInt(0),
			QuantityAfter:  decimal.NewFromInt(1),
		})
		return err
	})
	require.NoError(t, err)
	assert.Len(t, store.entries, 2)
}
