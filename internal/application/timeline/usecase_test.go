package timeline

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

// fakeTimelineRepo devuelve datos enlatados y registra los argumentos con los
// que fue invocado, para verificar filtros, paginación y ventanas de tiempo.
type fakeTimelineRepo struct {
	entries []*entity.LedgerEntry
	total   int

	lastFilter repository.TimelineFilter
	lastLimit  int
	lastOffset int

	classWindows [][2]time.Time
	reasonsFrom  time.Time
	reasonsLimit int
}

func (r *fakeTimelineRepo) List(_ context.Context, _ string, f repository.TimelineFilter, limit, offset int) ([]*entity.LedgerEntry, error) {
	r.lastFilter = f
	r.lastLimit = limit
	r.lastOffset = offset
	return r.entries, nil
}

func (r *fakeTimelineRepo) Count(_ context.Context, _ string, f repository.TimelineFilter) (int, error) {
	return r.total, nil
}

func (r *fakeTimelineRepo) CountByClass(_ context.Context, _, _ string, from, to time.Time) (repository.ClassCounts, error) {
	r.classWindows = append(r.classWindows, [2]time.Time{from, to})
	return repository.ClassCounts{Total: 8, Additions: 5, Deductions: 3}, nil
}

func (r *fakeTimelineRepo) TopDeductionReasons(_ context.Context, _, _ string, from time.Time, limit int) ([]repository.ReasonCount, error) {
	r.reasonsFrom = from
	r.reasonsLimit = limit
	return []repository.ReasonCount{
		{Reason: entity.ReasonExpired, Count: 4},
		{Reason: entity.ReasonDamaged, Count: 2},
	}, nil
}

var _ repository.TimelineRepository = (*fakeTimelineRepo)(nil)

func sampleEntry(id int64) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:         id,
		BusinessID: "biz-1",
		ItemID:     "item-1",
		Type:       entity.TxManualAddition,
		Quantity:   decimal.NewFromInt(1),
		Unit:       "und",
		CreatedAt:  time.Now(),
	}
}

func TestGetTimelineDefaults(t *testing.T) {
	repo := &fakeTimelineRepo{entries: []*entity.LedgerEntry{sampleEntry(2), sampleEntry(1)}, total: 2}
	uc := NewUseCase(repo, nil)

	result, err := uc.GetTimeline(context.Background(), "biz-1", dto.TimelineQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 50, result.Limit)
	assert.Equal(t, 50, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)
	assert.Equal(t, 2, result.Total)
	assert.False(t, result.HasMore)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, int64(2), result.Transactions[0].ID)
}

func TestGetTimelinePagination(t *testing.T) {
	repo := &fakeTimelineRepo{entries: []*entity.LedgerEntry{sampleEntry(2)}, total: 2}
	uc := NewUseCase(repo, nil)

	// página 1 de 2 con limit 1: queda más por leer
	result, err := uc.GetTimeline(context.Background(), "biz-1", dto.TimelineQuery{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.True(t, result.HasMore)
	assert.Equal(t, 0, repo.lastOffset)

	// página 2: offset avanza y ya no hay más
	result, err = uc.GetTimeline(context.Background(), "biz-1", dto.TimelineQuery{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.False(t, result.HasMore)
	assert.Equal(t, 1, repo.lastOffset)

	// página inválida se normaliza a 1 y el limit se acota al máximo
	result, err = uc.GetTimeline(context.Background(), "biz-1", dto.TimelineQuery{Page: -3, Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 200, result.Limit)
}

func TestGetTimelineFilterValidation(t *testing.T) {
	uc := NewUseCase(&fakeTimelineRepo{}, nil)
	ctx := context.Background()

	_, err := uc.GetTimeline(ctx, "biz-1", dto.TimelineQuery{Type: "venta"})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = uc.GetTimeline(ctx, "biz-1", dto.TimelineQuery{DeductionReason: "perdido"})
	assert.ErrorAs(t, err, &ve)
}

func TestGetTimelineFilterPassthrough(t *testing.T) {
	repo := &fakeTimelineRepo{}
	uc := NewUseCase(repo, nil)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := uc.GetTimeline(context.Background(), "biz-1", dto.TimelineQuery{
		BranchID:        "suc-1",
		Type:            string(entity.TxOrderSale),
		ReferenceType:   entity.RefOrder,
		DeductionReason: string(entity.ReasonExpired),
		DateFrom:        &from,
	})
	require.NoError(t, err)
	assert.Equal(t, "suc-1", repo.lastFilter.BranchID)
	assert.Equal(t, entity.TxOrderSale, repo.lastFilter.Type)
	assert.Equal(t, entity.RefOrder, repo.lastFilter.ReferenceType)
	assert.Equal(t, entity.ReasonExpired, repo.lastFilter.DeductionReason)
	require.NotNil(t, repo.lastFilter.DateFrom)
	assert.True(t, from.Equal(*repo.lastFilter.DateFrom))
}

func TestGetItemTimeline(t *testing.T) {
	repo := &fakeTimelineRepo{}
	uc := NewUseCase(repo, nil)

	_, err := uc.GetItemTimeline(context.Background(), "biz-1", "item-7", dto.TimelineQuery{ItemID: "otro"})
	require.NoError(t, err)
	// el ítem del path manda sobre el del query
	assert.Equal(t, "item-7", repo.lastFilter.ItemID)
}

func TestGetTimelineStats(t *testing.T) {
	repo := &fakeTimelineRepo{}
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
	uc := NewUseCase(repo, func() time.Time { return now })

	stats, err := uc.GetTimelineStats(context.Background(), "biz-1", "")
	require.NoError(t, err)

	assert.Equal(t, 8, stats.TodayTransactions)
	assert.Equal(t, 5, stats.TodayAdditions)
	assert.Equal(t, 3, stats.TodayDeductions)
	assert.Equal(t, 8, stats.WeekTransactions)
	require.Len(t, stats.TopDeductionReasons, 2)
	assert.Equal(t, dto.ReasonCountDTO{Reason: "expired", Count: 4}, stats.TopDeductionReasons[0])

	// Ventanas: hoy = medianoche local -> ahora; semana = 7 días hacia atrás
	require.Len(t, repo.classWindows, 2)
	midnight := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, repo.classWindows[0][0].Equal(midnight))
	assert.True(t, repo.classWindows[0][1].Equal(now))
	assert.True(t, repo.classWindows[1][0].Equal(now.AddDate(0, 0, -7)))

	// Top de motivos: últimos 30 días, máximo 5
	assert.True(t, repo.reasonsFrom.Equal(now.AddDate(0, 0, -30)))
	assert.Equal(t, 5, repo.reasonsLimit)
}
