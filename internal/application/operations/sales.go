package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/application/accounting"
	"github.com/jhoicas/costing-ledger/internal/application/costing"
	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/domain"
)

// SaleLine línea entregada. Amount es el valor de venta de la línea (sin impuestos).
type SaleLine struct {
	ItemID   string
	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

// DeliverSaleInput entrega de una venta desde una bodega.
type DeliverSaleInput struct {
	SaleID      string
	WarehouseID string
	Lines       []SaleLine
	Memo        string
	Actor       string
	Date        time.Time
}

// DeliverSale da salida a cada línea al costo vigente y contabiliza en el mismo asiento
// la venta (DR cartera / CR ingresos) y el costo (DR costo de ventas / CR inventario).
func (uc *OperationsUseCase) DeliverSale(ctx context.Context, in DeliverSaleInput) (*Result, error) {
	if err := requireRef("sale_id", in.SaleID); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: la venta no tiene líneas", domain.ErrInvalidInput)
	}
	keys := make([]costing.StockKey, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: valor de venta negativo para ítem %s", domain.ErrInvalidInput, l.ItemID)
		}
		keys = append(keys, costing.StockKey{ItemID: l.ItemID, WarehouseID: in.WarehouseID})
	}

	out := &Result{Lines: make([]LineCost, 0, len(in.Lines))}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		if err := costing.LockAll(ctx, repos, keys); err != nil {
			return err
		}
		cogs, revenue := decimal.Zero, decimal.Zero
		for _, l := range in.Lines {
			issue := costing.IssueInput{
				ItemID:      l.ItemID,
				WarehouseID: in.WarehouseID,
				Quantity:    l.Quantity,
				RefType:     RefSaleDelivery,
				RefID:       in.SaleID,
				Actor:       in.Actor,
			}
			res, err := uc.costing.IssueInTx(ctx, repos, issue)
			if err != nil {
				return err
			}
			out.Lines = append(out.Lines, lineCost(issue, res))
			cogs = cogs.Add(res.Value)
			revenue = revenue.Add(l.Amount)
		}

		var lines []accounting.PostLine
		lines = append(lines, pair(uc.accounts.Receivable, uc.accounts.Revenue, uc.money(revenue), RefSaleDelivery, in.SaleID)...)
		lines = append(lines, pair(uc.accounts.COGS, uc.accounts.Inventory, uc.money(cogs), RefSaleDelivery, in.SaleID)...)
		j, err := uc.postIfAny(ctx, repos, lines, memoOr(in.Memo, "Entrega de venta "+in.SaleID), in.Actor, in.Date)
		if err != nil {
			return err
		}
		out.Journal = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logPosted("sale_delivery", in.SaleID, out.Journal)
	return out, nil
}

func memoOr(memo, fallback string) string {
	if memo != "" {
		return memo
	}
	return fallback
}
