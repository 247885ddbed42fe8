package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/costing-ledger/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout acota la espera de cada bloqueo
// dentro de la transacción (0 = sin límite).
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Fallos de serialización, deadlocks y lock_timeout salen como domain.ErrConcurrencyConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// SET no admite parámetros; el valor es un entero propio, no entrada del usuario.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(ctx, RepositoriesFor(tx)); err != nil {
		return translateError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RepositoriesFor ata todos los repositorios del motor al mismo Querier (pool o tx).
func RepositoriesFor(q Querier) ports.Repositories {
	return ports.Repositories{
		Items:    NewItemRepository(q),
		Policies: NewPolicyRepository(q),
		Ledger:   NewLedgerRepository(q),
		Lots:     NewLotRepository(q),
		Locks:    NewStockLockRepository(q),
		Accounts: NewAccountRepository(q),
		Journals: NewJournalRepository(q),
	}
}
