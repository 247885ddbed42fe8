package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/costing-ledger/internal/domain/repository"
)

var _ repository.StockLockRepository = (*StockLockRepo)(nil)

// StockLockRepo bloqueo exclusivo por (ítem, bodega) con advisory locks de transacción.
// Se libera solo con el Commit o Rollback; no hace falta fila previa en ninguna tabla,
// así que también cubre el primer movimiento de un par.
type StockLockRepo struct {
	q Querier
}

// NewStockLockRepository construye el adaptador. Solo tiene sentido dentro de una tx.
func NewStockLockRepository(q Querier) *StockLockRepo {
	return &StockLockRepo{q: q}
}

// Lock espera el bloqueo del par hasta lock_timeout.
func (r *StockLockRepo) Lock(ctx context.Context, itemID, warehouseID string) error {
	query := `SELECT pg_advisory_xact_lock(hashtextextended($1 || '|' || $2, 0))`
	if _, err := r.q.Exec(ctx, query, itemID, warehouseID); err != nil {
		return translateError(fmt.Errorf("lock stock %s/%s: %w", itemID, warehouseID, err))
	}
	return nil
}
