package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction sentido del movimiento en el kárdex.
type Direction string

// Sentidos de movimiento.
const (
	DirectionIN  Direction = "IN"  // entrada
	DirectionOUT Direction = "OUT" // salida
)

// LedgerEntry registro inmutable del kárdex por (ítem, bodega).
// Value es con signo (negativo en salidas); los campos Running* reflejan el saldo
// inmediatamente después del movimiento.
type LedgerEntry struct {
	ID             string
	Seq            int64 // orden de inserción asignado por el almacén
	ItemID         string
	WarehouseID    string
	Direction      Direction
	Quantity       decimal.Decimal // siempre > 0
	UnitCost       decimal.Decimal
	Value          decimal.Decimal
	RunningQty     decimal.Decimal
	RunningValue   decimal.Decimal
	RunningAvgCost decimal.Decimal
	RefType        string
	RefID          string
	LotID          string // solo salidas FIFO
	Actor          string
	CreatedAt      time.Time
}

// SignedQuantity devuelve la cantidad con signo según la dirección.
func (e *LedgerEntry) SignedQuantity() decimal.Decimal {
	if e.Direction == DirectionOUT {
		return e.Quantity.Neg()
	}
	return e.Quantity
}
