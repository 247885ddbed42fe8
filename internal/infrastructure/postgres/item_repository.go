package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/domain/repository"
)

var (
	_ repository.ItemRepository   = (*ItemRepo)(nil)
	_ repository.PolicyRepository = (*PolicyRepo)(nil)
)

// ItemRepo lectura de ítems sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT id, sku, name, costing_method FROM items WHERE id = $1`
	var it entity.Item
	err := r.q.QueryRow(ctx, query, id).Scan(&it.ID, &it.SKU, &it.Name, &it.CostingMethod)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// Upsert inserta o actualiza un ítem (semillas y pruebas de integración).
func (r *ItemRepo) Upsert(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (id, sku, name, costing_method)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET sku = EXCLUDED.sku, name = EXCLUDED.name, costing_method = EXCLUDED.costing_method`
	if _, err := r.q.Exec(ctx, query, it.ID, it.SKU, it.Name, string(it.CostingMethod)); err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// PolicyRepo almacén clave/valor de políticas (tabla settings).
type PolicyRepo struct {
	q Querier
}

// NewPolicyRepository construye el adaptador.
func NewPolicyRepository(q Querier) *PolicyRepo {
	return &PolicyRepo{q: q}
}

// Get devuelve el valor de la política o ok=false si no existe.
func (r *PolicyRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := r.q.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, true, nil
}

// Set fija el valor de una política.
func (r *PolicyRepo) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
