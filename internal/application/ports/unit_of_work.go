package ports

import (
	"context"

	"github.com/jhoicas/costing-ledger/internal/domain/repository"
)

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Items    repository.ItemRepository
	Policies repository.PolicyRepository
	Ledger   repository.LedgerRepository
	Lots     repository.LotRepository
	Locks    repository.StockLockRepository
	Accounts repository.AccountRepository
	Journals repository.JournalRepository
}

// TxRunner ejecuta fn dentro de una única unidad de trabajo.
// Commit si fn retorna nil; Rollback en cualquier otro caso (nada queda a medias).
// La unidad de trabajo la abre la operación de negocio; los servicios de costeo y
// contabilización solo participan con los repositorios recibidos.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
