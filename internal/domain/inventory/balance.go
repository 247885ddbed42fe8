package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/domain/entity"
)

// Balance saldo acumulado (cantidad y valor) de un ítem en una bodega.
type Balance struct {
	Qty   decimal.Decimal
	Value decimal.Decimal
}

// BalanceOf toma el saldo de la última entrada del kárdex; nil equivale a saldo cero.
func BalanceOf(last *entity.LedgerEntry) Balance {
	if last == nil {
		return Balance{Qty: decimal.Zero, Value: decimal.Zero}
	}
	return Balance{Qty: last.RunningQty, Value: last.RunningValue}
}

// AvgCost costo promedio del saldo; 0 cuando no hay cantidad.
func (b Balance) AvgCost() decimal.Decimal {
	if !b.Qty.IsPositive() {
		return decimal.Zero
	}
	return b.Value.Div(b.Qty)
}

// Receive devuelve el saldo tras una entrada de qty a unitCost.
func (b Balance) Receive(qty, unitCost decimal.Decimal) Balance {
	return Balance{Qty: b.Qty.Add(qty), Value: b.Value.Add(qty.Mul(unitCost))}
}

// Issue devuelve el saldo tras una salida de qty por value (value en positivo).
func (b Balance) Issue(qty, value decimal.Decimal) Balance {
	return Balance{Qty: b.Qty.Sub(qty), Value: b.Value.Sub(value)}
}

// Entry arma la entrada del kárdex que deja el saldo en b.
// value es el valor con signo del movimiento.
func (b Balance) Entry(dir entity.Direction, qty, unitCost, value decimal.Decimal) entity.LedgerEntry {
	return entity.LedgerEntry{
		Direction:      dir,
		Quantity:       qty,
		UnitCost:       unitCost,
		Value:          value,
		RunningQty:     b.Qty,
		RunningValue:   b.Value,
		RunningAvgCost: b.AvgCost(),
	}
}
