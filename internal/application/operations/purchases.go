package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/application/costing"
	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/domain"
)

// PurchaseLine línea recibida al costo unitario de compra.
type PurchaseLine struct {
	ItemID   string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// ReceivePurchaseInput recepción de una orden de compra en una bodega.
type ReceivePurchaseInput struct {
	PurchaseID  string
	WarehouseID string
	Lines       []PurchaseLine
	Memo        string
	Actor       string
	Date        time.Time
}

// ReceivePurchase da entrada a cada línea y contabiliza DR inventario / CR mercancía
// recibida no facturada por el valor total recibido.
func (uc *OperationsUseCase) ReceivePurchase(ctx context.Context, in ReceivePurchaseInput) (*Result, error) {
	if err := requireRef("purchase_id", in.PurchaseID); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: la recepción no tiene líneas", domain.ErrInvalidInput)
	}
	keys := make([]costing.StockKey, 0, len(in.Lines))
	for _, l := range in.Lines {
		keys = append(keys, costing.StockKey{ItemID: l.ItemID, WarehouseID: in.WarehouseID})
	}

	out := &Result{Lines: make([]LineCost, 0, len(in.Lines))}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		if err := costing.LockAll(ctx, repos, keys); err != nil {
			return err
		}
		total := decimal.Zero
		for _, l := range in.Lines {
			err := uc.costing.ReceiveInTx(ctx, repos, costing.ReceiptInput{
				ItemID:      l.ItemID,
				WarehouseID: in.WarehouseID,
				Quantity:    l.Quantity,
				UnitCost:    l.UnitCost,
				RefType:     RefPurchaseReceipt,
				RefID:       in.PurchaseID,
				Actor:       in.Actor,
			})
			if err != nil {
				return err
			}
			value := l.Quantity.Mul(l.UnitCost)
			out.Lines = append(out.Lines, LineCost{
				ItemID:      l.ItemID,
				WarehouseID: in.WarehouseID,
				Quantity:    l.Quantity,
				UnitCost:    l.UnitCost,
				Value:       value,
			})
			total = total.Add(value)
		}

		lines := pair(uc.accounts.Inventory, uc.accounts.GRNI, uc.money(total), RefPurchaseReceipt, in.PurchaseID)
		j, err := uc.postIfAny(ctx, repos, lines, memoOr(in.Memo, "Recepción de compra "+in.PurchaseID), in.Actor, in.Date)
		if err != nil {
			return err
		}
		out.Journal = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logPosted("purchase_receipt", in.PurchaseID, out.Journal)
	return out, nil
}
