package repository

import (
	"context"

	"github.com/jhoicas/costing-ledger/internal/domain/entity"
)

// ItemRepository puerto de lectura de ítems (los mantiene el módulo de maestros).
type ItemRepository interface {
	// GetByID devuelve nil, nil si el ítem no existe.
	GetByID(ctx context.Context, id string) (*entity.Item, error)
}

// PolicyRepository almacén clave/valor de políticas globales.
type PolicyRepository interface {
	// Get devuelve ok=false si la clave no está definida.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}
