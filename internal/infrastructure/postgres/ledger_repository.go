package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `
	id, seq, item_id, warehouse_id, direction, quantity, unit_cost, value,
	running_qty, running_value, running_avg_cost, ref_type, ref_id, lot_id, actor, created_at`

// LedgerRepo kárdex sobre PostgreSQL. Solo INSERT y SELECT.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Latest obtiene la última entrada de (ítem, bodega) por orden de inserción.
func (r *LedgerRepo) Latest(ctx context.Context, itemID, warehouseID string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM inventory_ledger
		WHERE item_id = $1 AND warehouse_id = $2
		ORDER BY seq DESC
		LIMIT 1`
	e, err := scanLedgerEntry(r.q.QueryRow(ctx, query, itemID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest ledger entry: %w", err)
	}
	return e, nil
}

// Append inserta la entrada; seq lo asigna la secuencia de la tabla.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO inventory_ledger (
			id, item_id, warehouse_id, direction, quantity, unit_cost, value,
			running_qty, running_value, running_avg_cost, ref_type, ref_id, lot_id, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		e.ID, e.ItemID, e.WarehouseID, string(e.Direction), e.Quantity, e.UnitCost, e.Value,
		e.RunningQty, e.RunningValue, e.RunningAvgCost, e.RefType, e.RefID,
		nullIfEmpty(e.LotID), e.Actor, e.CreatedAt,
	).Scan(&e.Seq)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ListByItemWarehouse lista el kárdex completo de (ítem, bodega), más antiguo primero.
func (r *LedgerRepo) ListByItemWarehouse(ctx context.Context, itemID, warehouseID string) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM inventory_ledger
		WHERE item_id = $1 AND warehouse_id = $2
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, itemID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanLedgerEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var direction string
	var lotID *string
	err := row.Scan(
		&e.ID, &e.Seq, &e.ItemID, &e.WarehouseID, &direction, &e.Quantity, &e.UnitCost, &e.Value,
		&e.RunningQty, &e.RunningValue, &e.RunningAvgCost, &e.RefType, &e.RefID, &lotID, &e.Actor, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Direction = entity.Direction(direction)
	e.LotID = fromNull(lotID)
	return &e, nil
}
