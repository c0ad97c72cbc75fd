package timeline

import (
	"context"
	"time"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

const (
	defaultLimit = 50
	maxLimit     = 200
	topReasons   = 5
)

// UseCase consultas de solo lectura sobre el libro: feed global, feed por
// ítem y estadísticas. Nunca muta estado.
type UseCase struct {
	repo repository.TimelineRepository
	now  func() time.Time
}

// NewUseCase construye el caso de uso. now nil = time.Now (inyectable en tests).
func NewUseCase(repo repository.TimelineRepository, now func() time.Time) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{repo: repo, now: now}
}

// GetTimeline feed filtrado y paginado del libro, más reciente primero.
func (uc *UseCase) GetTimeline(ctx context.Context, businessID string, q dto.TimelineQuery) (*dto.TimelineResult, error) {
	filter, err := filterFrom(q)
	if err != nil {
		return nil, err
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := (page - 1) * limit

	entries, err := uc.repo.List(ctx, businessID, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LedgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewLedgerEntryDTO(e))
	}
	return &dto.TimelineResult{
		Transactions: out,
		Total:        total,
		Page:         page,
		Limit:        limit,
		HasMore:      total > page*limit,
	}, nil
}

// GetItemTimeline feed del libro con el ítem forzado en el filtro.
func (uc *UseCase) GetItemTimeline(ctx context.Context, businessID, itemID string, q dto.TimelineQuery) (*dto.TimelineResult, error) {
	q.ItemID = itemID
	return uc.GetTimeline(ctx, businessID, q)
}

// GetTimelineStats conteos de hoy (medianoche local → ahora), de los últimos
// 7 días, y top de motivos de deducción manual de los últimos 30 días.
func (uc *UseCase) GetTimelineStats(ctx context.Context, businessID, branchID string) (*dto.TimelineStatsDTO, error) {
	now := uc.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	today, err := uc.repo.CountByClass(ctx, businessID, branchID, midnight, now)
	if err != nil {
		return nil, err
	}
	week, err := uc.repo.CountByClass(ctx, businessID, branchID, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, err
	}
	reasons, err := uc.repo.TopDeductionReasons(ctx, businessID, branchID, now.AddDate(0, 0, -30), topReasons)
	if err != nil {
		return nil, err
	}

	top := make([]dto.ReasonCountDTO, 0, len(reasons))
	for _, r := range reasons {
		top = append(top, dto.ReasonCountDTO{Reason: string(r.Reason), Count: r.Count})
	}
	return &dto.TimelineStatsDTO{
		TodayTransactions:   today.Total,
		TodayAdditions:      today.Additions,
		TodayDeductions:     today.Deductions,
		WeekTransactions:    week.Total,
		TopDeductionReasons: top,
	}, nil
}

// filterFrom valida los enums del filtro y lo traduce al filtro del repositorio.
func filterFrom(q dto.TimelineQuery) (repository.TimelineFilter, error) {
	f := repository.TimelineFilter{
		BranchID:      q.BranchID,
		ItemID:        q.ItemID,
		ReferenceType: q.ReferenceType,
		DateFrom:      q.DateFrom,
		DateTo:        q.DateTo,
	}
	if q.Type != "" {
		t := entity.TransactionType(q.Type)
		if !t.Valid() {
			return f, domain.NewValidationError("tipo de transacción inválido")
		}
		f.Type = t
	}
	if q.DeductionReason != "" {
		r := entity.DeductionReason(q.DeductionReason)
		if !r.Valid() {
			return f, domain.NewValidationError("motivo de deducción inválido")
		}
		f.DeductionReason = r
	}
	return f, nil
}
