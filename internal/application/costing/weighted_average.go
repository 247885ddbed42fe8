package costing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/domain/inventory"
)

// WeightedAverage costea las salidas al promedio ponderado vigente del kárdex.
type WeightedAverage struct{}

var _ Strategy = WeightedAverage{}

func (WeightedAverage) Method() entity.CostingMethod { return entity.CostingWeightedAvg }

func (WeightedAverage) Receive(ctx context.Context, repos ports.Repositories, in ReceiptInput, now time.Time) error {
	_, err := appendReceipt(ctx, repos, in, now)
	return err
}

// Issue toma el costo promedio de la última entrada. Si la salida agota el saldo, el valor
// emitido es el valor restante completo, para que el kárdex cierre exactamente en 0.
func (WeightedAverage) Issue(ctx context.Context, repos ports.Repositories, in IssueInput, now time.Time) (IssueResult, error) {
	last, err := repos.Ledger.Latest(ctx, in.ItemID, in.WarehouseID)
	if err != nil {
		return IssueResult{}, err
	}
	bal := inventory.BalanceOf(last)
	if last == nil || bal.Qty.LessThan(in.Quantity) {
		return IssueResult{}, &domain.InsufficientStockError{
			ItemID:      in.ItemID,
			WarehouseID: in.WarehouseID,
			Available:   bal.Qty,
			Requested:   in.Quantity,
		}
	}

	unitCost := last.RunningAvgCost
	value := in.Quantity.Mul(unitCost)
	if bal.Qty.Equal(in.Quantity) {
		value = bal.Value
	}

	next := bal.Issue(in.Quantity, value)
	entry := next.Entry(entity.DirectionOUT, in.Quantity, unitCost, value.Neg())
	stamp(&entry, in.ItemID, in.WarehouseID, in.RefType, in.RefID, in.Actor, now)
	if err := repos.Ledger.Append(ctx, &entry); err != nil {
		return IssueResult{}, err
	}
	return IssueResult{
		Method:   entity.CostingWeightedAvg,
		UnitCost: unitCost,
		Value:    value,
		Layers:   []CostLayer{{Quantity: in.Quantity, UnitCost: unitCost, Value: value}},
	}, nil
}

// Value lee los saldos acumulados de la última entrada del kárdex (ceros si no hay).
func (WeightedAverage) Value(ctx context.Context, repos ports.Repositories, itemID, warehouseID string) (entity.Valuation, error) {
	last, err := repos.Ledger.Latest(ctx, itemID, warehouseID)
	if err != nil {
		return entity.Valuation{}, err
	}
	v := entity.Valuation{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Method:      entity.CostingWeightedAvg,
		Quantity:    decimal.Zero,
		Value:       decimal.Zero,
		AvgCost:     decimal.Zero,
	}
	if last != nil {
		v.Quantity = last.RunningQty
		v.Value = last.RunningValue
		v.AvgCost = last.RunningAvgCost
	}
	return v, nil
}
