package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/application/accounting"
	"github.com/jhoicas/costing-ledger/internal/application/costing"
	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/pkg/logger"
)

// Tipos de referencia que quedan en el kárdex y en las líneas del asiento.
const (
	RefSaleDelivery    = "SALE_DELIVERY"
	RefPurchaseReceipt = "PURCHASE_RECEIPT"
	RefTransfer        = "TRANSFER"
	RefAdjustment      = "ADJUSTMENT"
	RefMaterialIssue   = "MATERIAL_ISSUE"
)

// Accounts códigos de cuenta contable que usan las operaciones de negocio.
type Accounts struct {
	Inventory  string
	Receivable string
	Revenue    string
	COGS       string
	GRNI       string // mercancía recibida no facturada
	Adjustment string
	WIP        string // producción en proceso
}

// OperationsUseCase orquesta costeo y contabilización en una sola unidad de trabajo:
// si cualquiera de los dos falla, no queda ni el movimiento ni el asiento.
type OperationsUseCase struct {
	txRunner ports.TxRunner
	costing  *costing.CostingUseCase
	posting  *accounting.PostingUseCase
	accounts Accounts
	log      *logger.Logger
}

// NewOperationsUseCase construye el orquestador de operaciones.
func NewOperationsUseCase(
	txRunner ports.TxRunner,
	costingUC *costing.CostingUseCase,
	postingUC *accounting.PostingUseCase,
	accounts Accounts,
	log *logger.Logger,
) *OperationsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OperationsUseCase{
		txRunner: txRunner,
		costing:  costingUC,
		posting:  postingUC,
		accounts: accounts,
		log:      log.Component("operations"),
	}
}

// LineCost costo asignado a una línea de la operación.
type LineCost struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Value       decimal.Decimal
	Method      entity.CostingMethod
}

// Result resultado común: costos por línea y el asiento generado (nil si todo fue en cero).
type Result struct {
	Lines   []LineCost
	Journal *entity.Journal
}

// money redondea al mínimo de la moneda (half-even) para llevar al mayor.
func (uc *OperationsUseCase) money(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(uc.posting.Scale())
}

// pair devuelve DR debitCode / CR creditCode por amount; nada si amount es cero.
func pair(debitCode, creditCode string, amount decimal.Decimal, refType, refID string) []accounting.PostLine {
	if amount.IsZero() {
		return nil
	}
	return []accounting.PostLine{
		{AccountCode: debitCode, Debit: amount, RefType: refType, RefID: refID},
		{AccountCode: creditCode, Credit: amount, RefType: refType, RefID: refID},
	}
}

// postIfAny contabiliza las líneas en la transacción en curso. Sin líneas no hay asiento.
func (uc *OperationsUseCase) postIfAny(
	ctx context.Context,
	repos ports.Repositories,
	lines []accounting.PostLine,
	memo, actor string,
	date time.Time,
) (*entity.Journal, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	return uc.posting.PostInTx(ctx, repos, accounting.PostRequest{
		Lines: lines,
		Memo:  memo,
		Actor: actor,
		Date:  date,
	})
}

func (uc *OperationsUseCase) logPosted(op, refID string, j *entity.Journal) {
	ev := uc.log.Info().Str("operation", op).Str("ref_id", refID)
	if j != nil {
		ev = ev.Int64("journal_number", j.Number).Str("journal_id", j.ID)
	}
	ev.Msg("operación contabilizada")
}

func requireRef(name, v string) error {
	if v == "" {
		return fmt.Errorf("%w: %s es requerido", domain.ErrInvalidInput, name)
	}
	return nil
}

func lineCost(in costing.IssueInput, res costing.IssueResult) LineCost {
	return LineCost{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitCost:    res.UnitCost,
		Value:       res.Value,
		Method:      res.Method,
	}
}
