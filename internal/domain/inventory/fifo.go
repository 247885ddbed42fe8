package inventory

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
)

// LotConsumption cantidad tomada de un lote en una salida FIFO.
type LotConsumption struct {
	Lot      *entity.Lot
	Quantity decimal.Decimal
	Value    decimal.Decimal // Quantity * Lot.UnitCost
}

// TotalOnHand suma el saldo de los lotes.
func TotalOnHand(lots []*entity.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		total = total.Add(l.QtyOnHand)
	}
	return total
}

// TotalValue suma el valor del saldo de los lotes.
func TotalValue(lots []*entity.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		total = total.Add(l.Value())
	}
	return total
}

// SortFIFO ordena los lotes del más antiguo al más reciente (ReceivedAt, luego orden de inserción).
func SortFIFO(lots []*entity.Lot) {
	slices.SortStableFunc(lots, func(a, b *entity.Lot) int {
		if c := a.ReceivedAt.Compare(b.ReceivedAt); c != 0 {
			return c
		}
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
}

// PlanFIFO calcula qué cantidad tomar de cada lote para cubrir qty, del más antiguo al más
// reciente, partiendo el último lote si hace falta. No modifica los lotes recibidos.
func PlanFIFO(lots []*entity.Lot, qty decimal.Decimal) ([]LotConsumption, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	ordered := slices.Clone(lots)
	SortFIFO(ordered)

	remaining := qty
	plan := make([]LotConsumption, 0, len(ordered))
	for _, lot := range ordered {
		if remaining.IsZero() {
			break
		}
		if !lot.QtyOnHand.IsPositive() {
			continue
		}
		take := decimal.Min(remaining, lot.QtyOnHand)
		plan = append(plan, LotConsumption{
			Lot:      lot,
			Quantity: take,
			Value:    take.Mul(lot.UnitCost),
		})
		remaining = remaining.Sub(take)
	}
	if remaining.IsPositive() {
		return nil, fmt.Errorf("plan fifo: faltan %s unidades: %w", remaining.String(), domain.ErrInsufficientStock)
	}
	return plan, nil
}
