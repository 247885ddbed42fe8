package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, seq, item_id, warehouse_id, quantity, qty_on_hand, unit_cost, received_at, ref_type, ref_id`

// LotRepo lotes FIFO sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// ListOpen lista los lotes con saldo, del más antiguo al más reciente.
func (r *LotRepo) ListOpen(ctx context.Context, itemID, warehouseID string) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + `
		FROM inventory_lots
		WHERE item_id = $1 AND warehouse_id = $2 AND qty_on_hand > 0
		ORDER BY received_at, seq`
	return r.list(ctx, query, itemID, warehouseID)
}

// ListByItemWarehouse lista todos los lotes, incluidos los agotados.
func (r *LotRepo) ListByItemWarehouse(ctx context.Context, itemID, warehouseID string) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + `
		FROM inventory_lots
		WHERE item_id = $1 AND warehouse_id = $2
		ORDER BY received_at, seq`
	return r.list(ctx, query, itemID, warehouseID)
}

// Create persiste un lote nuevo.
func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_lots (id, item_id, warehouse_id, quantity, qty_on_hand, unit_cost, received_at, ref_type, ref_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		l.ID, l.ItemID, l.WarehouseID, l.Quantity, l.QtyOnHand, l.UnitCost, l.ReceivedAt, l.RefType, l.RefID,
	).Scan(&l.Seq)
	if err != nil {
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// UpdateQtyOnHand fija el saldo del lote. La tabla rechaza saldos negativos.
func (r *LotRepo) UpdateQtyOnHand(ctx context.Context, lotID string, qtyOnHand decimal.Decimal) error {
	if qtyOnHand.IsNegative() {
		return fmt.Errorf("%w: saldo de lote negativo %s", domain.ErrInvalidInput, qtyOnHand)
	}
	tag, err := r.q.Exec(ctx, `UPDATE inventory_lots SET qty_on_hand = $2 WHERE id = $1`, lotID, qtyOnHand)
	if err != nil {
		return fmt.Errorf("update lot qty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lot %s: %w", lotID, domain.ErrNotFound)
	}
	return nil
}

func (r *LotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var out []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(
			&l.ID, &l.Seq, &l.ItemID, &l.WarehouseID, &l.Quantity, &l.QtyOnHand,
			&l.UnitCost, &l.ReceivedAt, &l.RefType, &l.RefID,
		); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
