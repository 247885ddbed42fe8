package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/domain/repository"
)

var (
	_ repository.AccountRepository = (*AccountRepo)(nil)
	_ repository.JournalRepository = (*JournalRepo)(nil)
)

// AccountRepo plan de cuentas sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador.
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// GetByCode resuelve una cuenta por código.
func (r *AccountRepo) GetByCode(ctx context.Context, code string) (*entity.Account, error) {
	var a entity.Account
	var typ string
	err := r.q.QueryRow(ctx, `SELECT id, code, name, type FROM accounts WHERE code = $1`, code).
		Scan(&a.ID, &a.Code, &a.Name, &typ)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.Type = entity.AccountType(typ)
	return &a, nil
}

// Upsert inserta o actualiza una cuenta (semillas y pruebas de integración).
func (r *AccountRepo) Upsert(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (id, code, name, type) VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type`
	if _, err := r.q.Exec(ctx, query, a.ID, a.Code, a.Name, string(a.Type)); err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

// JournalRepo asientos contables sobre PostgreSQL.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador.
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// NextNumber incrementa la fila contador. El UPDATE bloquea la fila hasta el fin de la tx,
// por eso dos asientos concurrentes nunca comparten número y un rollback no deja huecos.
func (r *JournalRepo) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`UPDATE journal_counters SET last_number = last_number + 1 WHERE id = 1 RETURNING last_number`,
	).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errors.New("next journal number: journal_counters sin inicializar")
		}
		return 0, translateError(fmt.Errorf("next journal number: %w", err))
	}
	return n, nil
}

// Create persiste cabecera y líneas en un solo batch.
func (r *JournalRepo) Create(ctx context.Context, j *entity.Journal) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO journals (id, number, date, memo, posted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		j.ID, j.Number, j.Date, j.Memo, j.PostedBy, j.CreatedAt,
	)
	for i, l := range j.Lines {
		batch.Queue(`
			INSERT INTO journal_lines (id, journal_id, line_no, account_id, account_code, debit, credit, ref_type, ref_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, j.ID, i+1, l.AccountID, l.AccountCode, l.Debit, l.Credit, l.RefType, l.RefID,
		)
	}

	br := r.q.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) {
				return fmt.Errorf("create journal %d: %w", j.Number, domain.ErrConcurrencyConflict)
			}
			return fmt.Errorf("create journal: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento con sus líneas en orden.
func (r *JournalRepo) GetByID(ctx context.Context, id string) (*entity.Journal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var j entity.Journal
	err := r.q.QueryRow(ctx,
		`SELECT id, number, date, memo, posted_by, created_at FROM journals WHERE id = $1`, id,
	).Scan(&j.ID, &j.Number, &j.Date, &j.Memo, &j.PostedBy, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, journal_id, account_id, account_code, debit, credit, ref_type, ref_id
		FROM journal_lines WHERE journal_id = $1
		ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("list journal lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.JournalLine
		if err := rows.Scan(&l.ID, &l.JournalID, &l.AccountID, &l.AccountCode, &l.Debit, &l.Credit, &l.RefType, &l.RefID); err != nil {
			return nil, fmt.Errorf("scan journal line: %w", err)
		}
		j.Lines = append(j.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list journal lines: %w", err)
	}
	return &j, nil
}
