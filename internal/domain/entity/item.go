package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item metadatos del ítem de inventario que el motor del libro consume como
// colaborador externo: unidad de almacenamiento y costo por defecto cuando aún
// no existe StockLevel para la clave.
type Item struct {
	ID          string
	BusinessID  string
	Name        string
	SKU         string
	StorageUnit string
	CostPerUnit decimal.Decimal
	CreatedAt   time.Time
}
