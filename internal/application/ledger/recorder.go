package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// Recorder el único escritor del libro de inventario. Inserta asientos
// inmutables y expone las operaciones crudas sobre la proyección para los
// productores upstream (ventas, compras, traslados, producción) que coordinan
// su propia transacción.
type Recorder struct {
	ledgerRepo repository.LedgerRepository
	stockRepo  repository.StockLevelRepository
	itemRepo   repository.ItemRepository
	log        *logger.Logger
}

// NewRecorder construye el recorder con repositorios atados al pool.
func NewRecorder(
	ledgerRepo repository.LedgerRepository,
	stockRepo repository.StockLevelRepository,
	itemRepo repository.ItemRepository,
	log *logger.Logger,
) *Recorder {
	return &Recorder{
		ledgerRepo: ledgerRepo,
		stockRepo:  stockRepo,
		itemRepo:   itemRepo,
		log:        log,
	}
}

// RecordInput entrada para registrar un asiento. Los snapshots
// QuantityBefore/QuantityAfter y el costo los aporta el llamador: el recorder
// los confía pero los deja en el log (el contrato de concurrencia de cómo
// obtenerlos es responsabilidad del llamador; ver AdjustmentService para la
// variante con bloqueo de fila).
type RecordInput struct {
	BusinessID        string
	Scope             entity.Scope
	ItemID            string
	Type              entity.TransactionType
	Quantity          decimal.Decimal // magnitud positiva
	Unit              string
	DeductionReason   entity.DeductionReason
	ReferenceType     string
	ReferenceID       string
	Notes             string
	PerformedBy       string
	QuantityBefore    decimal.Decimal
	QuantityAfter     decimal.Decimal
	CostPerUnitAtTime decimal.Decimal
}

func (in RecordInput) validate() error {
	if !in.Type.Valid() {
		return domain.NewValidationError("tipo de transacción inválido")
	}
	if !in.Quantity.IsPositive() {
		return domain.NewValidationError("la cantidad debe ser positiva")
	}
	if in.DeductionReason != "" && !in.DeductionReason.Valid() {
		return domain.NewValidationError("motivo de deducción inválido")
	}
	return nil
}

// Record inserta un asiento en el libro. No toca la proyección: esa
// responsabilidad está separada para que traslados y producción puedan agrupar
// varios asientos contra una actualización de cantidades coordinada.
func (r *Recorder) Record(ctx context.Context, in RecordInput) (*entity.LedgerEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	entry := entryFrom(in, time.Now())
	if err := r.ledgerRepo.Create(entry); err != nil {
		r.logPersistence(err, in)
		return nil, err
	}
	r.log.Debug().
		Str("business_id", in.BusinessID).
		Str("item_id", in.ItemID).
		Str("scope", in.Scope.String()).
		Str("type", string(in.Type)).
		Str("before", in.QuantityBefore.String()).
		Str("after", in.QuantityAfter.String()).
		Int64("entry_id", entry.ID).
		Msg("asiento registrado")
	return entry, nil
}

// RecordInTx igual que Record pero sobre un repositorio atado a la transacción
// del llamador (vía TxRunner), para agrupar varios asientos en una sola tx.
func (r *Recorder) RecordInTx(ledgerRepo repository.LedgerRepository, in RecordInput) (*entity.LedgerEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	entry := entryFrom(in, time.Now())
	if err := ledgerRepo.Create(entry); err != nil {
		r.logPersistence(err, in)
		return nil, err
	}
	return entry, nil
}

func entryFrom(in RecordInput, now time.Time) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		BusinessID:        in.BusinessID,
		Scope:             in.Scope,
		ItemID:            in.ItemID,
		Type:              in.Type,
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		DeductionReason:   in.DeductionReason,
		ReferenceType:     in.ReferenceType,
		ReferenceID:       in.ReferenceID,
		Notes:             in.Notes,
		PerformedBy:       in.PerformedBy,
		CreatedAt:         now,
		QuantityBefore:    in.QuantityBefore,
		QuantityAfter:     in.QuantityAfter,
		CostPerUnitAtTime: in.CostPerUnitAtTime,
	}
}

func (r *Recorder) logPersistence(err error, in RecordInput) {
	var pe *domain.PersistenceError
	ev := r.log.Error().
		Str("business_id", in.BusinessID).
		Str("item_id", in.ItemID).
		Str("scope", in.Scope.String()).
		Str("type", string(in.Type)).
		Str("quantity", in.Quantity.String()).
		Str("before", in.QuantityBefore.String()).
		Str("after", in.QuantityAfter.String())
	if errors.As(err, &pe) {
		ev = ev.Str("op", pe.Op).Str("key", pe.Key)
	}
	ev.Err(err).Msg("fallo de persistencia al registrar asiento")
}

// StockInfo respuesta de GetCurrentStock.
type StockInfo struct {
	Quantity    decimal.Decimal
	CostPerUnit decimal.Decimal
	StorageUnit string
}

// GetCurrentStock lee la proyección para la clave. Si no hay fila devuelve
// cantidad cero con la unidad y el costo por defecto del ítem: la ausencia de
// StockLevel es un estado válido ("nunca se movió"), no un error.
func (r *Recorder) GetCurrentStock(ctx context.Context, businessID, itemID string, scope entity.Scope) (*StockInfo, error) {
	item, err := r.itemRepo.GetByID(businessID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	level, err := r.stockRepo.Get(businessID, itemID, scope)
	if err != nil {
		return nil, err
	}
	return &StockInfo{
		Quantity:    level.Quantity,
		CostPerUnit: item.CostPerUnit,
		StorageUnit: item.StorageUnit,
	}, nil
}

// UpdateStockQuantity sobreescribe la cantidad de la proyección (upsert).
// No es un delta ni un primitivo atómico: junto con GetCurrentStock forma una
// secuencia read-modify-write que el llamador debe envolver en su propia
// transacción si compite por la clave. El ajuste manual NO usa este camino.
func (r *Recorder) UpdateStockQuantity(ctx context.Context, businessID, itemID string, newQuantity decimal.Decimal, scope entity.Scope) error {
	if newQuantity.IsNegative() {
		return domain.NewValidationError("la cantidad no puede ser negativa")
	}
	if err := r.stockRepo.UpdateQuantity(businessID, itemID, scope, newQuantity); err != nil {
		r.log.Error().
			Str("business_id", businessID).
			Str("item_id", itemID).
			Str("scope", scope.String()).
			Str("new_quantity", newQuantity.String()).
			Err(err).Msg("fallo de persistencia al actualizar proyección")
		return err
	}
	return nil
}
