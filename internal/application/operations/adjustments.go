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

// AdjustInput ajuste de inventario. Quantity positiva = sobrante (entra a UnitCost),
// negativa = faltante (sale al costo vigente).
type AdjustInput struct {
	AdjustmentID string
	ItemID       string
	WarehouseID  string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	Reason       string
	Actor        string
	Date         time.Time
}

// AdjustStock registra el ajuste y lo contabiliza contra la cuenta de ajustes.
func (uc *OperationsUseCase) AdjustStock(ctx context.Context, in AdjustInput) (*Result, error) {
	if err := requireRef("adjustment_id", in.AdjustmentID); err != nil {
		return nil, err
	}
	if in.Quantity.IsZero() {
		return nil, fmt.Errorf("%w: la cantidad del ajuste no puede ser cero", domain.ErrInvalidInput)
	}
	memo := memoOr(in.Reason, "Ajuste de inventario "+in.AdjustmentID)

	out := &Result{}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var lines []accounting.PostLine
		if in.Quantity.IsPositive() {
			err := uc.costing.ReceiveInTx(ctx, repos, costing.ReceiptInput{
				ItemID:      in.ItemID,
				WarehouseID: in.WarehouseID,
				Quantity:    in.Quantity,
				UnitCost:    in.UnitCost,
				RefType:     RefAdjustment,
				RefID:       in.AdjustmentID,
				Actor:       in.Actor,
			})
			if err != nil {
				return err
			}
			value := in.Quantity.Mul(in.UnitCost)
			out.Lines = []LineCost{{
				ItemID:      in.ItemID,
				WarehouseID: in.WarehouseID,
				Quantity:    in.Quantity,
				UnitCost:    in.UnitCost,
				Value:       value,
			}}
			lines = pair(uc.accounts.Inventory, uc.accounts.Adjustment, uc.money(value), RefAdjustment, in.AdjustmentID)
		} else {
			issue := costing.IssueInput{
				ItemID:      in.ItemID,
				WarehouseID: in.WarehouseID,
				Quantity:    in.Quantity.Neg(),
				RefType:     RefAdjustment,
				RefID:       in.AdjustmentID,
				Actor:       in.Actor,
			}
			res, err := uc.costing.IssueInTx(ctx, repos, issue)
			if err != nil {
				return err
			}
			out.Lines = []LineCost{lineCost(issue, res)}
			lines = pair(uc.accounts.Adjustment, uc.accounts.Inventory, uc.money(res.Value), RefAdjustment, in.AdjustmentID)
		}

		j, err := uc.postIfAny(ctx, repos, lines, memo, in.Actor, in.Date)
		if err != nil {
			return err
		}
		out.Journal = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logPosted("adjustment", in.AdjustmentID, out.Journal)
	return out, nil
}
