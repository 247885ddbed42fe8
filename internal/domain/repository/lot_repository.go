package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/domain/entity"
)

// LotRepository puerto de lotes FIFO.
type LotRepository interface {
	// ListOpen devuelve los lotes con saldo > 0 ordenados por ReceivedAt (más antiguo primero).
	ListOpen(ctx context.Context, itemID, warehouseID string) ([]*entity.Lot, error)
	// ListByItemWarehouse devuelve todos los lotes, incluidos los agotados.
	ListByItemWarehouse(ctx context.Context, itemID, warehouseID string) ([]*entity.Lot, error)
	Create(ctx context.Context, lot *entity.Lot) error
	// UpdateQtyOnHand fija el saldo del lote; nunca negativo.
	UpdateQtyOnHand(ctx context.Context, lotID string, qtyOnHand decimal.Decimal) error
}
