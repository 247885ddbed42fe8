package repository

import "context"

// StockLockRepository serializa las operaciones sobre un mismo (ítem, bodega).
// El bloqueo es exclusivo y dura hasta que termina la unidad de trabajo que lo tomó;
// pares distintos no se bloquean entre sí.
type StockLockRepository interface {
	Lock(ctx context.Context, itemID, warehouseID string) error
}
