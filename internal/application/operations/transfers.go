package operations

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/application/costing"
	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/domain"
)

// TransferInput traslado de un ítem entre bodegas.
type TransferInput struct {
	TransferID      string
	ItemID          string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	Actor           string
}

// TransferResult salida en origen y entradas en destino.
type TransferResult struct {
	Issued   LineCost
	Received []LineCost
}

// TransferStock saca de la bodega origen al costo vigente y entra en la destino por tramos
// al mismo costo, así el valor trasladado se conserva. No genera asiento: ambas bodegas
// usan la misma cuenta de inventario.
func (uc *OperationsUseCase) TransferStock(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if err := requireRef("transfer_id", in.TransferID); err != nil {
		return nil, err
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, fmt.Errorf("%w: bodega origen y destino son la misma", domain.ErrInvalidInput)
	}
	keys := []costing.StockKey{
		{ItemID: in.ItemID, WarehouseID: in.FromWarehouseID},
		{ItemID: in.ItemID, WarehouseID: in.ToWarehouseID},
	}

	out := &TransferResult{}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		if err := costing.LockAll(ctx, repos, keys); err != nil {
			return err
		}
		issue := costing.IssueInput{
			ItemID:      in.ItemID,
			WarehouseID: in.FromWarehouseID,
			Quantity:    in.Quantity,
			RefType:     RefTransfer,
			RefID:       in.TransferID,
			Actor:       in.Actor,
		}
		res, err := uc.costing.IssueInTx(ctx, repos, issue)
		if err != nil {
			return err
		}
		out.Issued = lineCost(issue, res)

		for _, layer := range res.Layers {
			err := uc.costing.ReceiveInTx(ctx, repos, costing.ReceiptInput{
				ItemID:      in.ItemID,
				WarehouseID: in.ToWarehouseID,
				Quantity:    layer.Quantity,
				UnitCost:    layer.UnitCost,
				RefType:     RefTransfer,
				RefID:       in.TransferID,
				Actor:       in.Actor,
			})
			if err != nil {
				return err
			}
			out.Received = append(out.Received, LineCost{
				ItemID:      in.ItemID,
				WarehouseID: in.ToWarehouseID,
				Quantity:    layer.Quantity,
				UnitCost:    layer.UnitCost,
				Value:       layer.Quantity.Mul(layer.UnitCost),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("operation", "transfer").
		Str("ref_id", in.TransferID).
		Str("from", in.FromWarehouseID).
		Str("to", in.ToWarehouseID).
		Msg("traslado registrado")
	return out, nil
}
