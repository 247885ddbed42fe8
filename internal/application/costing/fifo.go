package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/domain/inventory"
)

// FIFO costea las salidas consumiendo lotes del más antiguo al más reciente.
type FIFO struct{}

var _ Strategy = FIFO{}

func (FIFO) Method() entity.CostingMethod { return entity.CostingFIFO }

// Receive extiende el kárdex y abre un lote nuevo con la cantidad recibida.
func (FIFO) Receive(ctx context.Context, repos ports.Repositories, in ReceiptInput, now time.Time) error {
	entry, err := appendReceipt(ctx, repos, in, now)
	if err != nil {
		return err
	}
	lot := &entity.Lot{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		QtyOnHand:   in.Quantity,
		UnitCost:    in.UnitCost,
		ReceivedAt:  entry.CreatedAt,
		RefType:     in.RefType,
		RefID:       in.RefID,
	}
	return repos.Lots.Create(ctx, lot)
}

// Issue descuenta lotes y agrega una entrada de kárdex por cada lote tocado, con saldos
// acumulados paso a paso. Si no alcanza el saldo no modifica nada.
func (FIFO) Issue(ctx context.Context, repos ports.Repositories, in IssueInput, now time.Time) (IssueResult, error) {
	lots, err := repos.Lots.ListOpen(ctx, in.ItemID, in.WarehouseID)
	if err != nil {
		return IssueResult{}, err
	}
	available := inventory.TotalOnHand(lots)
	if available.LessThan(in.Quantity) {
		return IssueResult{}, &domain.InsufficientStockError{
			ItemID:      in.ItemID,
			WarehouseID: in.WarehouseID,
			Available:   available,
			Requested:   in.Quantity,
		}
	}
	plan, err := inventory.PlanFIFO(lots, in.Quantity)
	if err != nil {
		return IssueResult{}, err
	}

	last, err := repos.Ledger.Latest(ctx, in.ItemID, in.WarehouseID)
	if err != nil {
		return IssueResult{}, err
	}
	bal := inventory.BalanceOf(last)
	total := decimal.Zero
	layers := make([]CostLayer, 0, len(plan))
	for _, c := range plan {
		remaining := c.Lot.QtyOnHand.Sub(c.Quantity)
		if remaining.IsNegative() {
			return IssueResult{}, fmt.Errorf("lote %s quedaría negativo: %w", c.Lot.ID, domain.ErrInsufficientStock)
		}
		if err := repos.Lots.UpdateQtyOnHand(ctx, c.Lot.ID, remaining); err != nil {
			return IssueResult{}, err
		}

		bal = bal.Issue(c.Quantity, c.Value)
		entry := bal.Entry(entity.DirectionOUT, c.Quantity, c.Lot.UnitCost, c.Value.Neg())
		stamp(&entry, in.ItemID, in.WarehouseID, in.RefType, in.RefID, in.Actor, now)
		entry.LotID = c.Lot.ID
		if err := repos.Ledger.Append(ctx, &entry); err != nil {
			return IssueResult{}, err
		}
		total = total.Add(c.Value)
		layers = append(layers, CostLayer{Quantity: c.Quantity, UnitCost: c.Lot.UnitCost, Value: c.Value})
	}

	return IssueResult{
		Method:   entity.CostingFIFO,
		UnitCost: total.Div(in.Quantity),
		Value:    total,
		Layers:   layers,
	}, nil
}

// Value suma los lotes abiertos.
func (FIFO) Value(ctx context.Context, repos ports.Repositories, itemID, warehouseID string) (entity.Valuation, error) {
	lots, err := repos.Lots.ListOpen(ctx, itemID, warehouseID)
	if err != nil {
		return entity.Valuation{}, err
	}
	qty := inventory.TotalOnHand(lots)
	value := inventory.TotalValue(lots)
	avg := decimal.Zero
	if qty.IsPositive() {
		avg = value.Div(qty)
	}
	return entity.Valuation{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Method:      entity.CostingFIFO,
		Quantity:    qty,
		Value:       value,
		AvgCost:     avg,
	}, nil
}
