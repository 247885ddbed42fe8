package repository

import (
	"context"

	"github.com/jhoicas/costing-ledger/internal/domain/entity"
)

// LedgerRepository puerto del kárdex: solo inserción, nunca actualiza ni borra.
type LedgerRepository interface {
	// Latest devuelve la última entrada de (ítem, bodega) o nil si no hay ninguna.
	Latest(ctx context.Context, itemID, warehouseID string) (*entity.LedgerEntry, error)
	// Append inserta la entrada y asigna ID, Seq y CreatedAt si vienen vacíos.
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// ListByItemWarehouse devuelve las entradas en orden de creación (más antigua primero).
	ListByItemWarehouse(ctx context.Context, itemID, warehouseID string) ([]*entity.LedgerEntry, error)
}
