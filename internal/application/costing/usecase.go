package costing

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
)

// CostingUseCase valoriza entradas y salidas de inventario según el método de costeo del ítem
// y mantiene el kárdex y los lotes. Es el único que escribe en ellos.
//
// Receive/Issue/ValueOf abren su propia unidad de trabajo. ReceiveInTx/IssueInTx participan
// en la unidad de trabajo de una operación de negocio (ej. entrega de venta + asiento).
type CostingUseCase struct {
	txRunner   ports.TxRunner
	resolver   *PolicyResolver
	strategies map[entity.CostingMethod]Strategy
	now        func() time.Time
}

// NewCostingUseCase construye el caso de uso con las variantes FIFO y promedio ponderado.
func NewCostingUseCase(txRunner ports.TxRunner) *CostingUseCase {
	return &CostingUseCase{
		txRunner: txRunner,
		resolver: NewPolicyResolver(),
		strategies: map[entity.CostingMethod]Strategy{
			entity.CostingFIFO:        FIFO{},
			entity.CostingWeightedAvg: WeightedAverage{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *CostingUseCase) WithClock(now func() time.Time) *CostingUseCase {
	uc.now = now
	return uc
}

// Receive registra una entrada en su propia transacción.
func (uc *CostingUseCase) Receive(ctx context.Context, in ReceiptInput) error {
	if err := validateReceipt(in); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		return uc.ReceiveInTx(ctx, repos, in)
	})
}

// ReceiveInTx registra una entrada usando los repositorios del llamador (misma transacción).
func (uc *CostingUseCase) ReceiveInTx(ctx context.Context, repos ports.Repositories, in ReceiptInput) error {
	if err := validateReceipt(in); err != nil {
		return err
	}
	strategy, err := uc.strategyFor(ctx, repos, in.ItemID)
	if err != nil {
		return err
	}
	if err := repos.Locks.Lock(ctx, in.ItemID, in.WarehouseID); err != nil {
		return err
	}
	return strategy.Receive(ctx, repos, in, uc.now())
}

// Issue registra una salida en su propia transacción y devuelve el costo asignado.
func (uc *CostingUseCase) Issue(ctx context.Context, in IssueInput) (IssueResult, error) {
	if err := validateIssue(in); err != nil {
		return IssueResult{}, err
	}
	var out IssueResult
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		res, err := uc.IssueInTx(ctx, repos, in)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return IssueResult{}, err
	}
	return out, nil
}

// IssueInTx registra una salida usando los repositorios del llamador (misma transacción).
// Si retorna error (ej: ErrInsufficientStock), el llamador debe hacer rollback.
func (uc *CostingUseCase) IssueInTx(ctx context.Context, repos ports.Repositories, in IssueInput) (IssueResult, error) {
	if err := validateIssue(in); err != nil {
		return IssueResult{}, err
	}
	strategy, err := uc.strategyFor(ctx, repos, in.ItemID)
	if err != nil {
		return IssueResult{}, err
	}
	if err := repos.Locks.Lock(ctx, in.ItemID, in.WarehouseID); err != nil {
		return IssueResult{}, err
	}
	return strategy.Issue(ctx, repos, in, uc.now())
}

// ValueOf devuelve cantidad, valor y costo promedio actuales de (ítem, bodega). Solo lectura.
func (uc *CostingUseCase) ValueOf(ctx context.Context, itemID, warehouseID string) (entity.Valuation, error) {
	if itemID == "" || warehouseID == "" {
		return entity.Valuation{}, fmt.Errorf("%w: item_id y warehouse_id son requeridos", domain.ErrInvalidInput)
	}
	var out entity.Valuation
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		strategy, err := uc.strategyFor(ctx, repos, itemID)
		if err != nil {
			return err
		}
		v, err := strategy.Value(ctx, repos, itemID, warehouseID)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// StockCard devuelve el kárdex de (ítem, bodega), más antiguo primero. Solo lectura.
func (uc *CostingUseCase) StockCard(ctx context.Context, itemID, warehouseID string) ([]*entity.LedgerEntry, error) {
	if itemID == "" || warehouseID == "" {
		return nil, fmt.Errorf("%w: item_id y warehouse_id son requeridos", domain.ErrInvalidInput)
	}
	var out []*entity.LedgerEntry
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		entries, err := repos.Ledger.ListByItemWarehouse(ctx, itemID, warehouseID)
		out = entries
		return err
	})
	return out, err
}

// Lots devuelve todos los lotes de (ítem, bodega), incluidos los agotados. Solo lectura.
func (uc *CostingUseCase) Lots(ctx context.Context, itemID, warehouseID string) ([]*entity.Lot, error) {
	if itemID == "" || warehouseID == "" {
		return nil, fmt.Errorf("%w: item_id y warehouse_id son requeridos", domain.ErrInvalidInput)
	}
	var out []*entity.Lot
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		lots, err := repos.Lots.ListByItemWarehouse(ctx, itemID, warehouseID)
		out = lots
		return err
	})
	return out, err
}

// StockKey identifica un par (ítem, bodega).
type StockKey struct {
	ItemID      string
	WarehouseID string
}

// LockAll toma los bloqueos de varios pares en orden canónico, para que dos operaciones
// que tocan los mismos pares no se esperen mutuamente.
func LockAll(ctx context.Context, repos ports.Repositories, keys []StockKey) error {
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, func(a, b StockKey) int {
		if c := strings.Compare(a.ItemID, b.ItemID); c != 0 {
			return c
		}
		return strings.Compare(a.WarehouseID, b.WarehouseID)
	})
	sorted = slices.Compact(sorted)
	for _, k := range sorted {
		if err := repos.Locks.Lock(ctx, k.ItemID, k.WarehouseID); err != nil {
			return err
		}
	}
	return nil
}

func (uc *CostingUseCase) strategyFor(ctx context.Context, repos ports.Repositories, itemID string) (Strategy, error) {
	method, err := uc.resolver.Resolve(ctx, repos.Items, repos.Policies, itemID)
	if err != nil {
		return nil, err
	}
	s, ok := uc.strategies[method]
	if !ok {
		return nil, fmt.Errorf("%w: método de costeo %s sin implementación", domain.ErrInvalidInput, method)
	}
	return s, nil
}

func validateReceipt(in ReceiptInput) error {
	if in.ItemID == "" || in.WarehouseID == "" {
		return fmt.Errorf("%w: item_id y warehouse_id son requeridos", domain.ErrInvalidInput)
	}
	if !in.Quantity.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser positiva, llegó %s", domain.ErrInvalidInput, in.Quantity)
	}
	if in.UnitCost.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: el costo unitario no puede ser negativo, llegó %s", domain.ErrInvalidInput, in.UnitCost)
	}
	return nil
}

func validateIssue(in IssueInput) error {
	if in.ItemID == "" || in.WarehouseID == "" {
		return fmt.Errorf("%w: item_id y warehouse_id son requeridos", domain.ErrInvalidInput)
	}
	if !in.Quantity.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser positiva, llegó %s", domain.ErrInvalidInput, in.Quantity)
	}
	return nil
}
