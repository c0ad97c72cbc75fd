package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

// StockHandler peticiones HTTP de ajustes manuales y consulta de existencias (protegido).
type StockHandler struct {
	adjustments *ledger.AdjustmentService
	recorder    *ledger.Recorder
	stockRepo   repository.StockLevelRepository
}

// NewStockHandler construye el handler.
func NewStockHandler(adjustments *ledger.AdjustmentService, recorder *ledger.Recorder, stockRepo repository.StockLevelRepository) *StockHandler {
	return &StockHandler{adjustments: adjustments, recorder: recorder, stockRepo: stockRepo}
}

// respondDomainError traduce la taxonomía de errores del dominio a HTTP.
// Los errores de persistencia ya quedaron en el log del servicio: hacia el
// cliente solo va un fallo genérico, sin internos del storage.
func respondDomainError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: ve.Reason})
	}
	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: ise.Error()})
	}
	if errors.Is(err, domain.ErrItemNotFound) || errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// AddStock godoc
// @Summary      Alta manual de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockRequest  true  "item_id, branch_id (vacío = pool de negocio), quantity, notes (justificación obligatoria)"
// @Success      201  {object}  dto.AdjustmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/add [post]
func (h *StockHandler) AddStock(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.adjustments.AddStock(c.Context(), ledger.AddStockInput{
		BusinessID:  businessID,
		ItemID:      in.ItemID,
		Scope:       entity.ScopeFrom(in.BranchID),
		Quantity:    in.Quantity,
		Notes:       in.Notes,
		PerformedBy: GetUserID(c),
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustmentResponse{
		Transaction: dto.NewLedgerEntryDTO(result.Entry),
		NewQuantity: result.NewQuantity,
	})
}

// DeductStock godoc
// @Summary      Baja manual de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductStockRequest  true  "item_id, branch_id, quantity, reason (expired|damaged|spoiled|others), notes (obligatorio si reason=others)"
// @Success      201  {object}  dto.AdjustmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/deduct [post]
func (h *StockHandler) DeductStock(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	var in dto.DeductStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.adjustments.DeductStock(c.Context(), ledger.DeductStockInput{
		BusinessID:  businessID,
		ItemID:      in.ItemID,
		Scope:       entity.ScopeFrom(in.BranchID),
		Quantity:    in.Quantity,
		Reason:      entity.DeductionReason(in.Reason),
		Notes:       in.Notes,
		PerformedBy: GetUserID(c),
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustmentResponse{
		Transaction: dto.NewLedgerEntryDTO(result.Entry),
		NewQuantity: result.NewQuantity,
	})
}

// GetCurrentStock godoc
// @Summary      Existencia actual de un ítem
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id    query  string  true   "Ítem (UUID)"
// @Param        branch_id  query  string  false  "Sucursal (vacío = pool de negocio)"
// @Success      200  {object}  dto.CurrentStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/current [get]
func (h *StockHandler) GetCurrentStock(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	itemID := c.Query("item_id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id requerido"})
	}
	branchID := c.Query("branch_id")
	info, err := h.recorder.GetCurrentStock(c.Context(), businessID, itemID, entity.ScopeFrom(branchID))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.CurrentStockResponse{
		ItemID:      itemID,
		BranchID:    branchID,
		Quantity:    info.Quantity,
		CostPerUnit: info.CostPerUnit,
		StorageUnit: info.StorageUnit,
	})
}

// GetLowStock godoc
// @Summary      Ítems por debajo de su mínimo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sucursal. Vacío = todas."
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/stock/low [get]
func (h *StockHandler) GetLowStock(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	levels, err := h.stockRepo.ListBelowMinimum(c.Context(), businessID, c.Query("branch_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.LowStockItemDTO, 0, len(levels))
	for _, lv := range levels {
		branchID, _ := lv.Scope.BranchID()
		out = append(out, dto.LowStockItemDTO{
			ItemID:      lv.ItemID,
			BranchID:    branchID,
			Quantity:    lv.Quantity,
			MinQuantity: lv.MinQuantity,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// RecordTransaction godoc
// @Summary      Registrar un asiento del libro (productores upstream)
// @Description  Inserta solo el asiento; la proyección la coordina el productor
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransactionRequest  true  "asiento con snapshots aportados por el llamador"
// @Success      201  {object}  dto.LedgerEntryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [post]
func (h *StockHandler) RecordTransaction(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.recorder.Record(c.Context(), ledger.RecordInput{
		BusinessID:        businessID,
		Scope:             entity.ScopeFrom(in.BranchID),
		ItemID:            in.ItemID,
		Type:              entity.TransactionType(in.Type),
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		DeductionReason:   entity.DeductionReason(in.DeductionReason),
		ReferenceType:     in.ReferenceType,
		ReferenceID:       in.ReferenceID,
		Notes:             in.Notes,
		PerformedBy:       GetUserID(c),
		QuantityBefore:    in.QuantityBefore,
		QuantityAfter:     in.QuantityAfter,
		CostPerUnitAtTime: in.CostPerUnitAtTime,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLedgerEntryDTO(entry))
}
