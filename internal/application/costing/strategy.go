package costing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/domain/inventory"
)

// ReceiptInput entrada de inventario.
type ReceiptInput struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	RefType     string
	RefID       string
	Actor       string
}

// IssueInput salida de inventario.
type IssueInput struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	RefType     string
	RefID       string
	Actor       string
}

// IssueResult costo asignado a una salida. En FIFO UnitCost es el costo combinado
// de todos los lotes tocados; el kárdex conserva el detalle por lote.
type IssueResult struct {
	Method   entity.CostingMethod
	UnitCost decimal.Decimal
	Value    decimal.Decimal
	Layers   []CostLayer
}

// CostLayer tramo de una salida a un mismo costo unitario (un lote en FIFO, uno solo en
// promedio ponderado). Permite reingresar lo emitido sin perder la valoración, ej. traslados.
type CostLayer struct {
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
	Value    decimal.Decimal
}

// Strategy variante de costeo. Se elige una vez por operación con el PolicyResolver.
// El llamador ya tomó el bloqueo de (ítem, bodega) antes de invocarla.
type Strategy interface {
	Method() entity.CostingMethod
	Receive(ctx context.Context, repos ports.Repositories, in ReceiptInput, now time.Time) error
	Issue(ctx context.Context, repos ports.Repositories, in IssueInput, now time.Time) (IssueResult, error)
	Value(ctx context.Context, repos ports.Repositories, itemID, warehouseID string) (entity.Valuation, error)
}

// appendReceipt extiende el kárdex con una entrada. Los campos de promedio se mantienen
// en toda recepción, sin importar el método.
func appendReceipt(ctx context.Context, repos ports.Repositories, in ReceiptInput, now time.Time) (*entity.LedgerEntry, error) {
	last, err := repos.Ledger.Latest(ctx, in.ItemID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	next := inventory.BalanceOf(last).Receive(in.Quantity, in.UnitCost)
	entry := next.Entry(entity.DirectionIN, in.Quantity, in.UnitCost, in.Quantity.Mul(in.UnitCost))
	stamp(&entry, in.ItemID, in.WarehouseID, in.RefType, in.RefID, in.Actor, now)
	if err := repos.Ledger.Append(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func stamp(e *entity.LedgerEntry, itemID, warehouseID, refType, refID, actor string, now time.Time) {
	e.ID = uuid.New().String()
	e.ItemID = itemID
	e.WarehouseID = warehouseID
	e.RefType = refType
	e.RefID = refID
	e.Actor = actor
	e.CreatedAt = now
}
