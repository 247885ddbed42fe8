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

// MaterialLine material consumido por la orden de producción.
type MaterialLine struct {
	ItemID   string
	Quantity decimal.Decimal
}

// IssueMaterialInput consumo de materiales para una orden de producción.
type IssueMaterialInput struct {
	ProductionOrderID string
	WarehouseID       string
	Lines             []MaterialLine
	Actor             string
	Date              time.Time
}

// IssueMaterial saca los materiales al costo vigente y los lleva a producción en proceso
// (DR WIP / CR inventario).
func (uc *OperationsUseCase) IssueMaterial(ctx context.Context, in IssueMaterialInput) (*Result, error) {
	if err := requireRef("production_order_id", in.ProductionOrderID); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: el consumo no tiene líneas", domain.ErrInvalidInput)
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
			issue := costing.IssueInput{
				ItemID:      l.ItemID,
				WarehouseID: in.WarehouseID,
				Quantity:    l.Quantity,
				RefType:     RefMaterialIssue,
				RefID:       in.ProductionOrderID,
				Actor:       in.Actor,
			}
			res, err := uc.costing.IssueInTx(ctx, repos, issue)
			if err != nil {
				return err
			}
			out.Lines = append(out.Lines, lineCost(issue, res))
			total = total.Add(res.Value)
		}

		lines := pair(uc.accounts.WIP, uc.accounts.Inventory, uc.money(total), RefMaterialIssue, in.ProductionOrderID)
		j, err := uc.postIfAny(ctx, repos, lines, "Consumo de materiales OP "+in.ProductionOrderID, in.Actor, in.Date)
		if err != nil {
			return err
		}
		out.Journal = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logPosted("material_issue", in.ProductionOrderID, out.Journal)
	return out, nil
}
