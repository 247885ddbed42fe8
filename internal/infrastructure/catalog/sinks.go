package catalog

import (
	"context"

	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/costing-ledger/internal/infrastructure/postgres"
)

// MemorySink siembra un almacén en memoria.
type MemorySink struct {
	Store *memory.Store
}

func (s MemorySink) UpsertItem(_ context.Context, item entity.Item) error {
	s.Store.PutItem(item)
	return nil
}

func (s MemorySink) UpsertAccount(_ context.Context, acc entity.Account) error {
	s.Store.PutAccount(acc)
	return nil
}

func (s MemorySink) SetPolicy(_ context.Context, key, value string) error {
	s.Store.SetPolicy(key, value)
	return nil
}

// PostgresSink siembra PostgreSQL con los repositorios del motor.
type PostgresSink struct {
	items    *postgres.ItemRepo
	accounts *postgres.AccountRepo
	policies *postgres.PolicyRepo
}

// NewPostgresSink ata el destino a un pool o a una transacción.
func NewPostgresSink(q postgres.Querier) *PostgresSink {
	return &PostgresSink{
		items:    postgres.NewItemRepository(q),
		accounts: postgres.NewAccountRepository(q),
		policies: postgres.NewPolicyRepository(q),
	}
}

func (s *PostgresSink) UpsertItem(ctx context.Context, item entity.Item) error {
	return s.items.Upsert(ctx, &item)
}

func (s *PostgresSink) UpsertAccount(ctx context.Context, acc entity.Account) error {
	return s.accounts.Upsert(ctx, &acc)
}

func (s *PostgresSink) SetPolicy(ctx context.Context, key, value string) error {
	return s.policies.Set(ctx, key, value)
}
