package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot capa de costo FIFO: una recepción a un costo unitario.
// Nunca se elimina; al agotarse queda con QtyOnHand = 0 para auditoría.
type Lot struct {
	ID          string
	Seq         int64
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal // cantidad recibida originalmente
	QtyOnHand   decimal.Decimal
	UnitCost    decimal.Decimal
	ReceivedAt  time.Time
	RefType     string
	RefID       string
}

// Value valor del saldo del lote (QtyOnHand * UnitCost).
func (l *Lot) Value() decimal.Decimal {
	return l.QtyOnHand.Mul(l.UnitCost)
}
