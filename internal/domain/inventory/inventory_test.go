package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Promedio ponderado
// ──────────────────────────────────────────────────────────────────────────────

func TestBalance_PromedioPonderado(t *testing.T) {
	// (100*2500 + 50*2800) / 150 = 2600
	b := inventory.Balance{Qty: d("100"), Value: d("250000")}.Receive(d("50"), d("2800"))
	assert.True(t, b.AvgCost().Equal(d("2600")), "esperado 2600, obtenido %s", b.AvgCost())
}

func TestBalance_PrimeraEntradaFijaElPromedio(t *testing.T) {
	b := inventory.BalanceOf(nil).Receive(d("10"), d("7.5"))
	assert.True(t, b.AvgCost().Equal(d("7.5")))
}

func TestBalance_RecibirYEmitirConservaValor(t *testing.T) {
	b := inventory.BalanceOf(nil)
	assert.True(t, b.Qty.IsZero())
	assert.True(t, b.AvgCost().IsZero(), "sin cantidad el promedio es 0")

	b = b.Receive(d("100"), d("2500"))
	assert.True(t, b.Value.Equal(d("250000")))
	assert.True(t, b.AvgCost().Equal(d("2500")))

	b = b.Issue(d("30"), d("75000"))
	assert.True(t, b.Qty.Equal(d("70")))
	assert.True(t, b.Value.Equal(d("175000")))
	assert.True(t, b.AvgCost().Equal(d("2500")))
}

func TestBalance_EntryLlevaSaldosAcumulados(t *testing.T) {
	b := inventory.Balance{Qty: d("70"), Value: d("175000")}
	e := b.Entry(entity.DirectionOUT, d("30"), d("2500"), d("-75000"))

	assert.Equal(t, entity.DirectionOUT, e.Direction)
	assert.True(t, e.RunningQty.Equal(d("70")))
	assert.True(t, e.RunningValue.Equal(d("175000")))
	assert.True(t, e.RunningAvgCost.Equal(d("2500")))
	assert.True(t, e.SignedQuantity().Equal(d("-30")))
}

func TestBalanceOf_TomaLaUltimaEntrada(t *testing.T) {
	last := &entity.LedgerEntry{RunningQty: d("5"), RunningValue: d("35")}
	b := inventory.BalanceOf(last)
	assert.True(t, b.Qty.Equal(d("5")))
	assert.True(t, b.AvgCost().Equal(d("7")))
}

// ──────────────────────────────────────────────────────────────────────────────
// FIFO
// ──────────────────────────────────────────────────────────────────────────────

func lot(id string, seq int64, at time.Time, qty, cost string) *entity.Lot {
	return &entity.Lot{
		ID:         id,
		Seq:        seq,
		Quantity:   d(qty),
		QtyOnHand:  d(qty),
		UnitCost:   d(cost),
		ReceivedAt: at,
	}
}

func TestPlanFIFO_ConsumeDelMasAntiguo(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lots := []*entity.Lot{
		lot("L2", 2, t0.Add(time.Hour), "50", "12"),
		lot("L1", 1, t0, "50", "10"),
	}

	plan, err := inventory.PlanFIFO(lots, d("60"))
	require.NoError(t, err)
	require.Len(t, plan, 2)

	assert.Equal(t, "L1", plan[0].Lot.ID)
	assert.True(t, plan[0].Quantity.Equal(d("50")))
	assert.True(t, plan[0].Value.Equal(d("500")))
	assert.Equal(t, "L2", plan[1].Lot.ID)
	assert.True(t, plan[1].Quantity.Equal(d("10")))
	assert.True(t, plan[1].Value.Equal(d("120")))

	// los lotes de entrada no se tocan
	assert.True(t, lots[1].QtyOnHand.Equal(d("50")))
	assert.Equal(t, "L2", lots[0].ID, "el orden del slice recibido no cambia")
}

func TestPlanFIFO_EmpateEnFechaUsaOrdenDeInsercion(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lots := []*entity.Lot{
		lot("B", 7, t0, "5", "20"),
		lot("A", 3, t0, "5", "10"),
	}
	plan, err := inventory.PlanFIFO(lots, d("5"))
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "A", plan[0].Lot.ID)
}

func TestPlanFIFO_SaltaLotesAgotados(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	agotado := lot("L0", 1, t0, "10", "1")
	agotado.QtyOnHand = decimal.Zero
	lots := []*entity.Lot{agotado, lot("L1", 2, t0.Add(time.Minute), "10", "3")}

	plan, err := inventory.PlanFIFO(lots, d("4"))
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "L1", plan[0].Lot.ID)
	assert.True(t, inventory.TotalOnHand(lots).Equal(d("10")))
	assert.True(t, inventory.TotalValue(lots).Equal(d("30")))
}

func TestPlanFIFO_SaldoInsuficiente(t *testing.T) {
	lots := []*entity.Lot{lot("L1", 1, time.Now(), "3", "1")}
	_, err := inventory.PlanFIFO(lots, d("4"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestPlanFIFO_CantidadNoPositiva(t *testing.T) {
	_, err := inventory.PlanFIFO(nil, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
