package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/application/timeline"
)

// TimelineHandler lecturas de reporte sobre el libro (protegido).
type TimelineHandler struct {
	uc *timeline.UseCase
}

// NewTimelineHandler construye el handler.
func NewTimelineHandler(uc *timeline.UseCase) *TimelineHandler {
	return &TimelineHandler{uc: uc}
}

// queryFrom arma el TimelineQuery desde los query params. Fechas en RFC 3339;
// una fecha mal formada se ignora (filtro opcional, no tumba la consulta).
func queryFrom(c *fiber.Ctx) dto.TimelineQuery {
	q := dto.TimelineQuery{
		BranchID:        c.Query("branch_id"),
		ItemID:          c.Query("item_id"),
		Type:            c.Query("transaction_type"),
		ReferenceType:   c.Query("reference_type"),
		DeductionReason: c.Query("deduction_reason"),
		Page:            c.QueryInt("page", 1),
		Limit:           c.QueryInt("limit", 0),
	}
	if raw := c.Query("date_from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			q.DateFrom = &t
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			q.DateTo = &t
		}
	}
	return q
}

// GetTimeline godoc
// @Summary      Feed del libro de inventario
// @Tags         timeline
// @Security     Bearer
// @Produce      json
// @Param        branch_id         query  string  false  "Sucursal"
// @Param        item_id           query  string  false  "Ítem"
// @Param        transaction_type  query  string  false  "Tipo de transacción"
// @Param        reference_type    query  string  false  "Tipo de referencia"
// @Param        deduction_reason  query  string  false  "Motivo de deducción"
// @Param        date_from         query  string  false  "Desde (RFC 3339)"
// @Param        date_to           query  string  false  "Hasta (RFC 3339)"
// @Param        page              query  int     false  "Página (1-based, default 1)"
// @Param        limit             query  int     false  "Tamaño de página (default 50)"
// @Success      200  {object}  dto.TimelineResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/timeline [get]
func (h *TimelineHandler) GetTimeline(c *fiber.Ctx) error {
	result, err := h.uc.GetTimeline(c.Context(), GetBusinessID(c), queryFrom(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(result)
}

// GetItemTimeline godoc
// @Summary      Feed del libro para un ítem
// @Tags         timeline
// @Security     Bearer
// @Produce      json
// @Param        item_id  path  string  true  "Ítem (UUID)"
// @Success      200  {object}  dto.TimelineResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{item_id}/timeline [get]
func (h *TimelineHandler) GetItemTimeline(c *fiber.Ctx) error {
	result, err := h.uc.GetItemTimeline(c.Context(), GetBusinessID(c), c.Params("item_id"), queryFrom(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(result)
}

// GetTimelineStats godoc
// @Summary      Estadísticas del libro (hoy, 7 días, top motivos 30 días)
// @Tags         timeline
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (vacío = todas)"
// @Success      200  {object}  dto.TimelineStatsDTO
// @Router       /api/inventory/timeline/stats [get]
func (h *TimelineHandler) GetTimelineStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetTimelineStats(c.Context(), GetBusinessID(c), c.Query("branch_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(stats)
}
