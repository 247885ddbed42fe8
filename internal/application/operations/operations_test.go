package operations_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costing-ledger/internal/application/accounting"
	"github.com/jhoicas/costing-ledger/internal/application/costing"
	"github.com/jhoicas/costing-ledger/internal/application/operations"
	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	bodega    = "BOD-1"
	bodega2   = "BOD-2"
	testActor = "00000000-0000-0000-0000-000000000001"
)

var testAccounts = operations.Accounts{
	Inventory:  "1435",
	Receivable: "1305",
	Revenue:    "4135",
	COGS:       "6135",
	GRNI:       "2335",
	Adjustment: "5310",
	WIP:        "1410",
}

var (
	itemWA   = entity.Item{ID: "ITEM-WA", CostingMethod: entity.CostingWeightedAvg}
	itemFIFO = entity.Item{ID: "ITEM-FIFO", CostingMethod: entity.CostingFIFO}
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store   *memory.Store
	costing *costing.CostingUseCase
	ops     *operations.OperationsUseCase
}

// newFixture arma el orquestador sobre un almacén en memoria. skip omite cuentas del plan
// para provocar fallos de contabilización.
func newFixture(t *testing.T, skip ...string) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutItem(itemWA)
	store.PutItem(itemFIFO)
	for _, code := range []string{
		testAccounts.Inventory, testAccounts.Receivable, testAccounts.Revenue, testAccounts.COGS,
		testAccounts.GRNI, testAccounts.Adjustment, testAccounts.WIP,
	} {
		if contains(skip, code) {
			continue
		}
		store.PutAccount(entity.Account{ID: "acc-" + code, Code: code, Name: code})
	}
	runner := memory.NewTxRunner(store)
	costingUC := costing.NewCostingUseCase(runner)
	postingUC := accounting.NewPostingUseCase(runner, accounting.DefaultCurrencyScale)
	return &fixture{
		store:   store,
		costing: costingUC,
		ops:     operations.NewOperationsUseCase(runner, costingUC, postingUC, testAccounts, nil),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (f *fixture) purchase(t *testing.T, id, warehouse string, lines ...operations.PurchaseLine) *operations.Result {
	t.Helper()
	res, err := f.ops.ReceivePurchase(context.Background(), operations.ReceivePurchaseInput{
		PurchaseID:  id,
		WarehouseID: warehouse,
		Lines:       lines,
		Actor:       testActor,
	})
	require.NoError(t, err)
	return res
}

func lineAmount(j *entity.Journal, code string) (debit, credit decimal.Decimal) {
	for _, l := range j.Lines {
		if l.AccountCode == code {
			debit = debit.Add(l.Debit)
			credit = credit.Add(l.Credit)
		}
	}
	return debit, credit
}

// ──────────────────────────────────────────────────────────────────────────────
// Compra y venta
// ──────────────────────────────────────────────────────────────────────────────

func TestReceivePurchase_ContabilizaInventarioContraGRNI(t *testing.T) {
	f := newFixture(t)
	res := f.purchase(t, "OC-1", bodega,
		operations.PurchaseLine{ItemID: itemWA.ID, Quantity: d("100"), UnitCost: d("2500")},
		operations.PurchaseLine{ItemID: itemFIFO.ID, Quantity: d("10"), UnitCost: d("3.333")},
	)
	require.NotNil(t, res.Journal)
	dr, _ := lineAmount(res.Journal, testAccounts.Inventory)
	_, cr := lineAmount(res.Journal, testAccounts.GRNI)
	// 250000 + 33.33 (redondeado a centavos)
	assert.True(t, dr.Equal(d("250033.33")), "obtenido %s", dr)
	assert.True(t, cr.Equal(dr))
}

func TestDeliverSale_DescargaCostoYContabilizaVentaYCosto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "OC-1", bodega, operations.PurchaseLine{ItemID: itemWA.ID, Quantity: d("100"), UnitCost: d("2500")})

	res, err := f.ops.DeliverSale(ctx, operations.DeliverSaleInput{
		SaleID:      "FV-1",
		WarehouseID: bodega,
		Lines:       []operations.SaleLine{{ItemID: itemWA.ID, Quantity: d("30"), Amount: d("120000")}},
		Actor:       testActor,
	})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.True(t, res.Lines[0].Value.Equal(d("75000")))
	require.NotNil(t, res.Journal)
	assert.Equal(t, int64(2), res.Journal.Number)

	dr, _ := lineAmount(res.Journal, testAccounts.Receivable)
	_, cr := lineAmount(res.Journal, testAccounts.Revenue)
	assert.True(t, dr.Equal(d("120000")))
	assert.True(t, cr.Equal(d("120000")))
	dr, _ = lineAmount(res.Journal, testAccounts.COGS)
	_, cr = lineAmount(res.Journal, testAccounts.Inventory)
	assert.True(t, dr.Equal(d("75000")))
	assert.True(t, cr.Equal(d("75000")))
	debit, credit := res.Journal.Totals()
	assert.True(t, debit.Equal(credit))

	v, err := f.costing.ValueOf(ctx, itemWA.ID, bodega)
	require.NoError(t, err)
	assert.True(t, v.Quantity.Equal(d("70")))
}

func TestDeliverSale_FalloContableRevierteLaSalida(t *testing.T) {
	f := newFixture(t, testAccounts.COGS)
	ctx := context.Background()
	f.purchase(t, "OC-1", bodega, operations.PurchaseLine{ItemID: itemWA.ID, Quantity: d("10"), UnitCost: d("5")})
	ledgerBefore := f.store.LedgerCount()
	journalsBefore := f.store.JournalCount()

	_, err := f.ops.DeliverSale(ctx, operations.DeliverSaleInput{
		SaleID:      "FV-2",
		WarehouseID: bodega,
		Lines:       []operations.SaleLine{{ItemID: itemWA.ID, Quantity: d("4"), Amount: d("40")}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	assert.Equal(t, ledgerBefore, f.store.LedgerCount(), "la salida no debe quedar sin su asiento")
	assert.Equal(t, journalsBefore, f.store.JournalCount())
	v, err := f.costing.ValueOf(ctx, itemWA.ID, bodega)
	require.NoError(t, err)
	assert.True(t, v.Quantity.Equal(d("10")))
}

func TestDeliverSale_SaldoInsuficienteEnUnaLineaRevierteTodas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "OC-1", bodega,
		operations.PurchaseLine{ItemID: itemWA.ID, Quantity: d("10"), UnitCost: d("5")},
		operations.PurchaseLine{ItemID: itemFIFO.ID, Quantity: d("3"), UnitCost: d("5")},
	)
	ledgerBefore := f.store.LedgerCount()

	_, err := f.ops.DeliverSale(ctx, operations.DeliverSaleInput{
		SaleID:      "FV-3",
		WarehouseID: bodega,
		Lines: []operations.SaleLine{
			{ItemID: itemWA.ID, Quantity: d("5"), Amount: d("50")},
			{ItemID: itemFIFO.ID, Quantity: d("4"), Amount: d("40")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, ledgerBefore, f.store.LedgerCount())
	assert.Equal(t, 1, f.store.JournalCount())
}

func TestDeliverSale_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ops.DeliverSale(ctx, operations.DeliverSaleInput{WarehouseID: bodega})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ops.DeliverSale(ctx, operations.DeliverSaleInput{SaleID: "FV-4", WarehouseID: bodega})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados, ajustes y producción
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferStock_FIFOConservaCapasDeCosto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "OC-1", bodega, operations.PurchaseLine{ItemID: itemFIFO.ID, Quantity: d("50"), UnitCost: d("10")})
	f.purchase(t, "OC-2", bodega, operations.PurchaseLine{ItemID: itemFIFO.ID, Quantity: d("50"), UnitCost: d("12")})
	journals := f.store.JournalCount()

	res, err := f.ops.TransferStock(ctx, operations.TransferInput{
		TransferID:      "TR-1",
		ItemID:          itemFIFO.ID,
		FromWarehouseID: bodega,
		ToWarehouseID:   bodega2,
		Quantity:        d("60"),
		Actor:           testActor,
	})
	require.NoError(t, err)
	assert.True(t, res.Issued.Value.Equal(d("620")))
	require.Len(t, res.Received, 2)

	lots, err := f.costing.Lots(ctx, itemFIFO.ID, bodega2)
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.True(t, lots[0].UnitCost.Equal(d("10")))
	assert.True(t, lots[1].UnitCost.Equal(d("12")))

	dest, err := f.costing.ValueOf(ctx, itemFIFO.ID, bodega2)
	require.NoError(t, err)
	assert.True(t, dest.Value.Equal(d("620")))
	src, err := f.costing.ValueOf(ctx, itemFIFO.ID, bodega)
	require.NoError(t, err)
	assert.True(t, src.Value.Equal(d("480")))
	assert.Equal(t, journals, f.store.JournalCount(), "el traslado no genera asiento")
}

func TestTransferStock_MismaBodega(t *testing.T) {
	f := newFixture(t)
	_, err := f.ops.TransferStock(context.Background(), operations.TransferInput{
		TransferID: "TR-2", ItemID: itemWA.ID, FromWarehouseID: bodega, ToWarehouseID: bodega, Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustStock_SobranteYFaltante(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.ops.AdjustStock(ctx, operations.AdjustInput{
		AdjustmentID: "AJ-1", ItemID: itemWA.ID, WarehouseID: bodega, Quantity: d("8"), UnitCost: d("2.5"),
	})
	require.NoError(t, err)
	dr, _ := lineAmount(res.Journal, testAccounts.Inventory)
	_, cr := lineAmount(res.Journal, testAccounts.Adjustment)
	assert.True(t, dr.Equal(d("20")))
	assert.True(t, cr.Equal(d("20")))

	res, err = f.ops.AdjustStock(ctx, operations.AdjustInput{
		AdjustmentID: "AJ-2", ItemID: itemWA.ID, WarehouseID: bodega, Quantity: d("-3"), Reason: "Merma",
	})
	require.NoError(t, err)
	assert.Equal(t, "Merma", res.Journal.Memo)
	dr, _ = lineAmount(res.Journal, testAccounts.Adjustment)
	_, cr = lineAmount(res.Journal, testAccounts.Inventory)
	assert.True(t, dr.Equal(d("7.5")))
	assert.True(t, cr.Equal(d("7.5")))

	_, err = f.ops.AdjustStock(ctx, operations.AdjustInput{AdjustmentID: "AJ-3", ItemID: itemWA.ID, WarehouseID: bodega})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIssueMaterial_LlevaCostoAProduccionEnProceso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "OC-1", bodega,
		operations.PurchaseLine{ItemID: itemWA.ID, Quantity: d("3"), UnitCost: d("1")},
		operations.PurchaseLine{ItemID: itemFIFO.ID, Quantity: d("2"), UnitCost: d("4")},
	)

	res, err := f.ops.IssueMaterial(ctx, operations.IssueMaterialInput{
		ProductionOrderID: "OP-7",
		WarehouseID:       bodega,
		Lines: []operations.MaterialLine{
			{ItemID: itemWA.ID, Quantity: d("3")},
			{ItemID: itemFIFO.ID, Quantity: d("1")},
		},
	})
	require.NoError(t, err)
	dr, _ := lineAmount(res.Journal, testAccounts.WIP)
	_, cr := lineAmount(res.Journal, testAccounts.Inventory)
	assert.True(t, dr.Equal(d("7")))
	assert.True(t, cr.Equal(d("7")))
	for _, l := range res.Journal.Lines {
		assert.Equal(t, operations.RefMaterialIssue, l.RefType)
		assert.Equal(t, "OP-7", l.RefID)
	}
}

func TestOperacionEnCero_NoGeneraAsiento(t *testing.T) {
	f := newFixture(t)
	res := f.purchase(t, "OC-0", bodega, operations.PurchaseLine{ItemID: itemWA.ID, Quantity: d("5"), UnitCost: decimal.Zero})
	assert.Nil(t, res.Journal)
	assert.Equal(t, 0, f.store.JournalCount())
	assert.Equal(t, 1, f.store.LedgerCount())
}
