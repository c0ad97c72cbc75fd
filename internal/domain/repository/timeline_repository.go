package repository

import (
	"context"
	"time"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

// TimelineFilter filtros opcionales e independientes sobre el libro,
// combinados con AND. Cadena vacía / nil = sin filtro.
type TimelineFilter struct {
	BranchID        string
	ItemID          string
	Type            entity.TransactionType
	ReferenceType   string
	DeductionReason entity.DeductionReason
	DateFrom        *time.Time
	DateTo          *time.Time
}

// ClassCounts conteos de transacciones por clase de signo en una ventana.
type ClassCounts struct {
	Total      int
	Additions  int
	Deductions int
}

// ReasonCount frecuencia de un motivo de deducción manual.
type ReasonCount struct {
	Reason entity.DeductionReason
	Count  int
}

// TimelineRepository lecturas de reporte sobre el libro; nunca muta estado.
// Tolera read-committed: las consultas conviven con escrituras en vuelo.
type TimelineRepository interface {
	// List asientos filtrados, ordenados por created_at DESC con desempate id DESC.
	// Los campos unidos (ítem/sucursal/usuario) quedan nil si el destino del join
	// no existe; eso es dato parcial, no error.
	List(ctx context.Context, businessID string, f TimelineFilter, limit, offset int) ([]*entity.LedgerEntry, error)
	// Count total de asientos que cumplen el filtro, ignorando paginación.
	Count(ctx context.Context, businessID string, f TimelineFilter) (int, error)
	// CountByClass total/altas/bajas en la ventana [from, to). branchID vacío = todas.
	CountByClass(ctx context.Context, businessID, branchID string, from, to time.Time) (ClassCounts, error)
	// TopDeductionReasons motivos de manual_deduction más frecuentes desde from,
	// ordenados por frecuencia DESC y motivo ASC (determinista).
	TopDeductionReasons(ctx context.Context, businessID, branchID string, from time.Time, limit int) ([]ReasonCount, error)
}
