package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
)

// DefaultCurrencyScale decimales de la unidad monetaria mínima.
const DefaultCurrencyScale int32 = 2

// PostLine línea de un asiento por contabilizar.
type PostLine struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	RefType     string
	RefID       string
}

// PostRequest asiento por contabilizar. Date vacío = ahora.
type PostRequest struct {
	Lines []PostLine
	Memo  string
	Actor string
	Date  time.Time
}

// PostingUseCase servicio de contabilización del libro mayor: único creador de asientos.
// No sabe nada de inventario; lo invocan las operaciones de negocio.
type PostingUseCase struct {
	txRunner ports.TxRunner
	scale    int32
	now      func() time.Time
}

// NewPostingUseCase construye el servicio. scale son los decimales permitidos en los montos.
func NewPostingUseCase(txRunner ports.TxRunner, scale int32) *PostingUseCase {
	if scale < 0 {
		scale = DefaultCurrencyScale
	}
	return &PostingUseCase{
		txRunner: txRunner,
		scale:    scale,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Scale decimales monetarios con los que trabaja el servicio.
func (uc *PostingUseCase) Scale() int32 { return uc.scale }

// Post contabiliza el asiento en su propia transacción.
func (uc *PostingUseCase) Post(ctx context.Context, req PostRequest) (*entity.Journal, error) {
	if err := ValidateLines(req.Lines, uc.scale); err != nil {
		return nil, err
	}
	var out *entity.Journal
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		j, err := uc.PostInTx(ctx, repos, req)
		out = j
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PostInTx contabiliza usando los repositorios del llamador (misma transacción).
// Valida cuadre, resuelve cuentas, asigna consecutivo y persiste cabecera y líneas.
func (uc *PostingUseCase) PostInTx(ctx context.Context, repos ports.Repositories, req PostRequest) (*entity.Journal, error) {
	if err := ValidateLines(req.Lines, uc.scale); err != nil {
		return nil, err
	}

	accountIDs := make(map[string]string, len(req.Lines))
	for _, l := range req.Lines {
		if _, ok := accountIDs[l.AccountCode]; ok {
			continue
		}
		acc, err := repos.Accounts.GetByCode(ctx, l.AccountCode)
		if err != nil {
			return nil, fmt.Errorf("get account %s: %w", l.AccountCode, err)
		}
		if acc == nil {
			return nil, &domain.AccountNotFoundError{Code: l.AccountCode}
		}
		accountIDs[l.AccountCode] = acc.ID
	}

	number, err := repos.Journals.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	j := &entity.Journal{
		ID:        uuid.New().String(),
		Number:    number,
		Date:      date,
		Memo:      req.Memo,
		PostedBy:  req.Actor,
		CreatedAt: now,
		Lines:     make([]entity.JournalLine, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		j.Lines = append(j.Lines, entity.JournalLine{
			ID:          uuid.New().String(),
			JournalID:   j.ID,
			AccountID:   accountIDs[l.AccountCode],
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			RefType:     l.RefType,
			RefID:       l.RefID,
		})
	}
	if err := repos.Journals.Create(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// GetJournal devuelve un asiento con sus líneas. Solo lectura.
func (uc *PostingUseCase) GetJournal(ctx context.Context, id string) (*entity.Journal, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Journal
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		j, err := repos.Journals.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if j == nil {
			return domain.ErrNotFound
		}
		out = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateLines verifica la forma de las líneas y el cuadre exacto Σdébito = Σcrédito.
// Los montos no pueden tener más decimales que scale: la comparación es exacta, sin tolerancia.
func ValidateLines(lines []PostLine, scale int32) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: un asiento requiere al menos dos líneas", domain.ErrInvalidInput)
	}
	debit, credit := decimal.Zero, decimal.Zero
	for i, l := range lines {
		if l.AccountCode == "" {
			return fmt.Errorf("%w: línea %d sin código de cuenta", domain.ErrInvalidInput, i+1)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("%w: línea %d con monto negativo", domain.ErrInvalidInput, i+1)
		}
		if l.Debit.IsPositive() && l.Credit.IsPositive() {
			return fmt.Errorf("%w: línea %d con débito y crédito a la vez", domain.ErrInvalidInput, i+1)
		}
		if !l.Debit.Equal(l.Debit.Round(scale)) || !l.Credit.Equal(l.Credit.Round(scale)) {
			return fmt.Errorf("%w: línea %d con más de %d decimales", domain.ErrInvalidInput, i+1, scale)
		}
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	if !debit.Equal(credit) {
		return &domain.UnbalancedJournalError{Debit: debit, Credit: credit}
	}
	if debit.IsZero() {
		return fmt.Errorf("%w: asiento en cero", domain.ErrInvalidInput)
	}
	return nil
}
