package repository

import (
	"context"

	"github.com/jhoicas/costing-ledger/internal/domain/entity"
)

// AccountRepository resuelve cuentas del plan contable por código.
type AccountRepository interface {
	// GetByCode devuelve nil, nil si el código no existe.
	GetByCode(ctx context.Context, code string) (*entity.Account, error)
}

// JournalRepository puerto de asientos contables. Solo el servicio de contabilización escribe.
type JournalRepository interface {
	// NextNumber asigna el siguiente consecutivo global de asiento.
	NextNumber(ctx context.Context) (int64, error)
	// Create persiste cabecera y líneas.
	Create(ctx context.Context, journal *entity.Journal) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Journal, error)
}
