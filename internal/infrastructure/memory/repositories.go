package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/domain/inventory"
	"github.com/jhoicas/costing-ledger/internal/domain/repository"
)

var (
	_ repository.ItemRepository      = (*itemRepository)(nil)
	_ repository.PolicyRepository    = (*policyRepository)(nil)
	_ repository.LedgerRepository    = (*ledgerRepository)(nil)
	_ repository.LotRepository       = (*lotRepository)(nil)
	_ repository.StockLockRepository = lockRepository{}
	_ repository.AccountRepository   = (*accountRepository)(nil)
	_ repository.JournalRepository   = (*journalRepository)(nil)
)

type itemRepository struct{ st *state }

func (r *itemRepository) GetByID(_ context.Context, id string) (*entity.Item, error) {
	item, ok := r.st.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

type policyRepository struct{ st *state }

func (r *policyRepository) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := r.st.policies[key]
	return v, ok, nil
}

type ledgerRepository struct {
	st  *state
	now func() time.Time
}

func (r *ledgerRepository) Latest(_ context.Context, itemID, warehouseID string) (*entity.LedgerEntry, error) {
	for i := len(r.st.ledger) - 1; i >= 0; i-- {
		e := r.st.ledger[i]
		if e.ItemID == itemID && e.WarehouseID == warehouseID {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *ledgerRepository) Append(_ context.Context, entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}
	r.st.ledgerSeq++
	entry.Seq = r.st.ledgerSeq
	r.st.ledger = append(r.st.ledger, *entry)
	return nil
}

func (r *ledgerRepository) ListByItemWarehouse(_ context.Context, itemID, warehouseID string) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.st.ledger {
		if e.ItemID == itemID && e.WarehouseID == warehouseID {
			out = append(out, &e)
		}
	}
	return out, nil
}

type lotRepository struct{ st *state }

func (r *lotRepository) ListOpen(ctx context.Context, itemID, warehouseID string) ([]*entity.Lot, error) {
	all, _ := r.ListByItemWarehouse(ctx, itemID, warehouseID)
	open := all[:0]
	for _, l := range all {
		if l.QtyOnHand.IsPositive() {
			open = append(open, l)
		}
	}
	inventory.SortFIFO(open)
	return open, nil
}

func (r *lotRepository) ListByItemWarehouse(_ context.Context, itemID, warehouseID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.st.lots {
		if l.ItemID == itemID && l.WarehouseID == warehouseID {
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r *lotRepository) Create(_ context.Context, lot *entity.Lot) error {
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	r.st.lotSeq++
	lot.Seq = r.st.lotSeq
	r.st.lots = append(r.st.lots, *lot)
	return nil
}

func (r *lotRepository) UpdateQtyOnHand(_ context.Context, lotID string, qtyOnHand decimal.Decimal) error {
	if qtyOnHand.IsNegative() {
		return fmt.Errorf("%w: saldo de lote negativo %s", domain.ErrInvalidInput, qtyOnHand)
	}
	for i := range r.st.lots {
		if r.st.lots[i].ID == lotID {
			r.st.lots[i].QtyOnHand = qtyOnHand
			return nil
		}
	}
	return fmt.Errorf("lot %s: %w", lotID, domain.ErrNotFound)
}

// lockRepository no hace nada: el mutex del Store ya serializa toda la unidad de trabajo.
type lockRepository struct{}

func (lockRepository) Lock(ctx context.Context, _, _ string) error {
	return ctx.Err()
}

type accountRepository struct{ st *state }

func (r *accountRepository) GetByCode(_ context.Context, code string) (*entity.Account, error) {
	acc, ok := r.st.accounts[code]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

type journalRepository struct{ st *state }

func (r *journalRepository) NextNumber(_ context.Context) (int64, error) {
	r.st.journalCounter++
	return r.st.journalCounter, nil
}

func (r *journalRepository) Create(_ context.Context, journal *entity.Journal) error {
	for _, j := range r.st.journals {
		if j.Number == journal.Number {
			return fmt.Errorf("journal number %d already used", journal.Number)
		}
	}
	j := *journal
	j.Lines = append([]entity.JournalLine(nil), journal.Lines...)
	r.st.journals = append(r.st.journals, j)
	return nil
}

func (r *journalRepository) GetByID(_ context.Context, id string) (*entity.Journal, error) {
	for _, j := range r.st.journals {
		if j.ID == id {
			j.Lines = append([]entity.JournalLine(nil), j.Lines...)
			return &j, nil
		}
	}
	return nil, nil
}
