package ledger

import (
	"context"

	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es lo que permite que el ajuste manual (y los
// productores upstream que agrupan varios asientos, como traslados o
// producción) actualicen proyección y libro como una sola unidad de trabajo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledgerRepo repository.LedgerRepository,
		stockRepo repository.StockLevelRepository,
		itemRepo repository.ItemRepository,
	) error) error
}
