// Package memory implementa los repositorios del motor en memoria. Sirve para pruebas
// y para levantar la API sin base de datos (STORE_DRIVER=memory).
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
)

// state es todo lo que guarda el almacén. Cada unidad de trabajo opera sobre una copia.
type state struct {
	items    map[string]entity.Item
	policies map[string]string
	accounts map[string]entity.Account // por código
	ledger   []entity.LedgerEntry
	lots     []entity.Lot
	journals []entity.Journal

	ledgerSeq      int64
	lotSeq         int64
	journalCounter int64
}

func newState() *state {
	return &state{
		items:    make(map[string]entity.Item),
		policies: make(map[string]string),
		accounts: make(map[string]entity.Account),
	}
}

func (s *state) clone() *state {
	c := &state{
		items:          make(map[string]entity.Item, len(s.items)),
		policies:       make(map[string]string, len(s.policies)),
		accounts:       make(map[string]entity.Account, len(s.accounts)),
		ledger:         slices.Clone(s.ledger),
		lots:           slices.Clone(s.lots),
		journals:       make([]entity.Journal, len(s.journals)),
		ledgerSeq:      s.ledgerSeq,
		lotSeq:         s.lotSeq,
		journalCounter: s.journalCounter,
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.policies {
		c.policies[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for i, j := range s.journals {
		j.Lines = slices.Clone(j.Lines)
		c.journals[i] = j
	}
	return c
}

// Store almacén en memoria. Un único mutex serializa las unidades de trabajo,
// lo que equivale a un bloqueo exclusivo sobre todos los pares (ítem, bodega).
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		st:  newState(),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj con el que se sellan kárdex y lotes (pruebas).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// PutItem registra o reemplaza un ítem.
func (s *Store) PutItem(item entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.items[item.ID] = item
}

// SetPolicy fija una política global (ej. global_costing_method).
func (s *Store) SetPolicy(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.policies[key] = value
}

// DeletePolicy elimina una política global.
func (s *Store) DeletePolicy(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.st.policies, key)
}

// PutAccount registra o reemplaza una cuenta del plan contable.
func (s *Store) PutAccount(acc entity.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.accounts[acc.Code] = acc
}

// JournalCount cantidad de asientos contabilizados.
func (s *Store) JournalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.journals)
}

// LedgerCount cantidad de entradas de kárdex, de todos los pares.
func (s *Store) LedgerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.ledger)
}

// TxRunner ejecuta unidades de trabajo sobre el almacén en memoria.
// fn trabaja sobre una copia del estado; solo si retorna nil la copia reemplaza al original,
// así un error deja el almacén exactamente como estaba.
type TxRunner struct {
	store *Store
}

var _ ports.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner sobre store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repositorios atados a la copia de trabajo.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	work := r.store.st.clone()
	repos := ports.Repositories{
		Items:    &itemRepository{st: work},
		Policies: &policyRepository{st: work},
		Ledger:   &ledgerRepository{st: work, now: r.store.now},
		Lots:     &lotRepository{st: work},
		Locks:    lockRepository{},
		Accounts: &accountRepository{st: work},
		Journals: &journalRepository{st: work},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	r.store.st = work
	return nil
}
