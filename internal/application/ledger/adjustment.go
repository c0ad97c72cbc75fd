package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// AdjustmentService correcciones de stock iniciadas por humanos: altas con
// justificación obligatoria y bajas con motivo categorizado. Cada ajuste corre
// completo dentro de una transacción con bloqueo de fila (SELECT FOR UPDATE)
// sobre la clave de StockLevel, de modo que dos ajustes concurrentes sobre la
// misma clave se serializan y ninguno escribe a partir de una lectura obsoleta.
type AdjustmentService struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	log      *logger.Logger
}

// NewAdjustmentService construye el servicio de ajustes.
func NewAdjustmentService(txRunner TxRunner, itemRepo repository.ItemRepository, log *logger.Logger) *AdjustmentService {
	return &AdjustmentService{txRunner: txRunner, itemRepo: itemRepo, log: log}
}

// AddStockInput entrada de un alta manual.
type AddStockInput struct {
	BusinessID  string
	ItemID      string
	Scope       entity.Scope
	Quantity    decimal.Decimal
	Notes       string // justificación obligatoria
	PerformedBy string
}

// DeductStockInput entrada de una baja manual.
type DeductStockInput struct {
	BusinessID  string
	ItemID      string
	Scope       entity.Scope
	Quantity    decimal.Decimal
	Reason      entity.DeductionReason
	Notes       string // obligatorio si Reason == others
	PerformedBy string
}

// AdjustmentResult asiento creado y nueva cantidad de la proyección.
type AdjustmentResult struct {
	Entry       *entity.LedgerEntry
	NewQuantity decimal.Decimal
}

// AddStock valida, bloquea la fila de la clave, suma la cantidad y registra el
// asiento manual_addition con el snapshot tomado de la fila bloqueada.
func (s *AdjustmentService) AddStock(ctx context.Context, in AddStockInput) (*AdjustmentResult, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("la cantidad debe ser positiva")
	}
	if strings.TrimSpace(in.Notes) == "" {
		return nil, domain.NewValidationError("se requiere justificación")
	}
	item, err := s.itemRepo.GetByID(in.BusinessID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	var result *AdjustmentResult
	err = s.txRunner.Run(ctx, func(
		ledgerRepo repository.LedgerRepository,
		stockRepo repository.StockLevelRepository,
		_ repository.ItemRepository,
	) error {
		// Bloquea la fila (la crea en cero si es el primer movimiento de la clave)
		level, err := stockRepo.GetForUpdate(in.BusinessID, in.ItemID, in.Scope)
		if err != nil {
			return err
		}
		now := time.Now()
		before := level.Quantity
		level.Quantity = before.Add(in.Quantity)
		level.UpdatedAt = now
		if err := stockRepo.Upsert(level); err != nil {
			return err
		}
		entry := &entity.LedgerEntry{
			BusinessID:        in.BusinessID,
			Scope:             in.Scope,
			ItemID:            in.ItemID,
			Type:              entity.TxManualAddition,
			Quantity:          in.Quantity,
			Unit:              item.StorageUnit,
			ReferenceType:     entity.RefManual,
			ReferenceID:       uuid.New().String(),
			Notes:             in.Notes,
			PerformedBy:       in.PerformedBy,
			CreatedAt:         now,
			QuantityBefore:    before,
			QuantityAfter:     level.Quantity,
			CostPerUnitAtTime: item.CostPerUnit,
		}
		if err := ledgerRepo.Create(entry); err != nil {
			return err
		}
		result = &AdjustmentResult{Entry: entry, NewQuantity: level.Quantity}
		return nil
	})
	if err != nil {
		s.logAdjustmentFailure(err, "add", in.BusinessID, in.ItemID, in.Scope, in.Quantity)
		return nil, err
	}
	return result, nil
}

// DeductStock valida motivo y notas, bloquea la fila, verifica que la baja no
// deje la cantidad en negativo y registra el asiento manual_deduction.
func (s *AdjustmentService) DeductStock(ctx context.Context, in DeductStockInput) (*AdjustmentResult, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("la cantidad debe ser positiva")
	}
	if !in.Reason.Valid() {
		return nil, domain.NewValidationError("motivo de deducción inválido")
	}
	if in.Reason == entity.ReasonOthers && strings.TrimSpace(in.Notes) == "" {
		return nil, domain.NewValidationError("se requieren notas para el motivo 'others'")
	}
	item, err := s.itemRepo.GetByID(in.BusinessID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	var result *AdjustmentResult
	err = s.txRunner.Run(ctx, func(
		ledgerRepo repository.LedgerRepository,
		stockRepo repository.StockLevelRepository,
		_ repository.ItemRepository,
	) error {
		level, err := stockRepo.GetForUpdate(in.BusinessID, in.ItemID, in.Scope)
		if err != nil {
			return err
		}
		if in.Quantity.GreaterThan(level.Quantity) {
			// La verificación se hace sobre la fila bloqueada: la cantidad no
			// puede quedar negativa bajo ningún entrelazado.
			return &domain.InsufficientStockError{Available: level.Quantity, Unit: item.StorageUnit}
		}
		now := time.Now()
		before := level.Quantity
		level.Quantity = before.Sub(in.Quantity)
		level.UpdatedAt = now
		if err := stockRepo.Upsert(level); err != nil {
			return err
		}
		entry := &entity.LedgerEntry{
			BusinessID:        in.BusinessID,
			Scope:             in.Scope,
			ItemID:            in.ItemID,
			Type:              entity.TxManualDeduction,
			Quantity:          in.Quantity,
			Unit:              item.StorageUnit,
			DeductionReason:   in.Reason,
			ReferenceType:     entity.RefManual,
			ReferenceID:       uuid.New().String(),
			Notes:             in.Notes,
			PerformedBy:       in.PerformedBy,
			CreatedAt:         now,
			QuantityBefore:    before,
			QuantityAfter:     level.Quantity,
			CostPerUnitAtTime: item.CostPerUnit,
		}
		if err := ledgerRepo.Create(entry); err != nil {
			return err
		}
		result = &AdjustmentResult{Entry: entry, NewQuantity: level.Quantity}
		return nil
	})
	if err != nil {
		s.logAdjustmentFailure(err, "deduct", in.BusinessID, in.ItemID, in.Scope, in.Quantity)
		return nil, err
	}
	return result, nil
}

// logAdjustmentFailure deja en el log solo los fallos de persistencia.
// ValidationError e InsufficientStockError son resultados esperados de cara al
// usuario y no se registran como errores.
func (s *AdjustmentService) logAdjustmentFailure(err error, op, businessID, itemID string, scope entity.Scope, qty decimal.Decimal) {
	var pe *domain.PersistenceError
	if !errors.As(err, &pe) {
		return
	}
	s.log.Error().
		Str("adjustment", op).
		Str("business_id", businessID).
		Str("item_id", itemID).
		Str("scope", scope.String()).
		Str("quantity", qty.String()).
		Str("op", pe.Op).
		Str("key", pe.Key).
		Err(err).Msg("fallo de persistencia en ajuste manual")
}
