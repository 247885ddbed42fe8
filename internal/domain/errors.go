package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio del motor de costeo y del libro mayor.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrItemNotFound        = errors.New("ítem no encontrado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrAccountNotFound     = errors.New("cuenta contable no encontrada")
	ErrUnbalancedJournal   = errors.New("asiento descuadrado: débitos y créditos no coinciden")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente la operación")
)

// ItemNotFoundError indica qué ítem no existe.
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("ítem %s no encontrado", e.ItemID)
}

func (e *ItemNotFoundError) Unwrap() error { return ErrItemNotFound }

// InsufficientStockError lleva la cantidad disponible y la solicitada para diagnóstico.
type InsufficientStockError struct {
	ItemID      string
	WarehouseID string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para ítem %s en bodega %s: disponible %s, solicitado %s",
		e.ItemID, e.WarehouseID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// AccountNotFoundError nombra el código de cuenta que no se pudo resolver.
type AccountNotFoundError struct {
	Code string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("cuenta contable %s no encontrada", e.Code)
}

func (e *AccountNotFoundError) Unwrap() error { return ErrAccountNotFound }

// UnbalancedJournalError lleva los totales que no cuadraron.
type UnbalancedJournalError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e *UnbalancedJournalError) Error() string {
	return fmt.Sprintf("asiento descuadrado: débito %s, crédito %s", e.Debit.String(), e.Credit.String())
}

func (e *UnbalancedJournalError) Unwrap() error { return ErrUnbalancedJournal }

// IsRetryable indica si el llamador puede reintentar la operación completa.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
