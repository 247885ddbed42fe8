package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/costing-ledger/internal/domain"
)

// Códigos SQLSTATE que significan "otra transacción ganó, reintente".
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03" // lock_timeout vencido
	sqlStateUniqueViolation      = "23505"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation
}

// isConcurrencyFailure indica si el error es de serialización, deadlock o espera de bloqueo.
func isConcurrencyFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
		return true
	}
	return false
}

// translateError convierte fallos de concurrencia de PostgreSQL en ErrConcurrencyConflict
// conservando el error original en el mensaje. El resto pasa sin cambios.
func translateError(err error) error {
	if err == nil || errors.Is(err, domain.ErrConcurrencyConflict) {
		return err
	}
	if isConcurrencyFailure(err) {
		return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
	}
	return err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNull(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
