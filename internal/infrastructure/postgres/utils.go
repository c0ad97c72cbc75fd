package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

// Querier abstracción mínima compartida por *pgxpool.Pool y pgx.Tx, para que
// los repositorios funcionen igual fuera o dentro de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// nullIfEmpty convierte cadena vacía en NULL para columnas opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// branchParam traduce el alcance a parámetro de branch_id (NULL = pool de negocio).
func branchParam(scope entity.Scope) *string {
	if id, ok := scope.BranchID(); ok {
		return &id
	}
	return nil
}

// scopeKey clave legible para el contexto de errores de persistencia.
func scopeKey(businessID, itemID string, scope entity.Scope) string {
	return businessID + "/" + itemID + "/" + scope.String()
}
