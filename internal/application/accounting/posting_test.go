package accounting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costing-ledger/internal/application/accounting"
	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/infrastructure/memory"
)

const (
	codeAR      = "130505"
	codeRevenue = "413505"
	testActor   = "00000000-0000-0000-0000-000000000001"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newPosting(t *testing.T) (*accounting.PostingUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.PutAccount(entity.Account{ID: "acc-ar", Code: codeAR, Name: "Clientes", Type: entity.AccountAsset})
	store.PutAccount(entity.Account{ID: "acc-rev", Code: codeRevenue, Name: "Ventas", Type: entity.AccountRevenue})
	return accounting.NewPostingUseCase(memory.NewTxRunner(store), accounting.DefaultCurrencyScale), store
}

func saleLines(debit, credit string) []accounting.PostLine {
	return []accounting.PostLine{
		{AccountCode: codeAR, Debit: d(debit)},
		{AccountCode: codeRevenue, Credit: d(credit)},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario D
// ──────────────────────────────────────────────────────────────────────────────

func TestPost_EscenarioD_AsientoCuadrado(t *testing.T) {
	uc, _ := newPosting(t)
	ctx := context.Background()

	j, err := uc.Post(ctx, accounting.PostRequest{Lines: saleLines("1000", "1000"), Memo: "Venta FV-1", Actor: testActor})
	require.NoError(t, err)
	require.NotEmpty(t, j.ID)
	assert.Equal(t, int64(1), j.Number)
	assert.Equal(t, testActor, j.PostedBy)
	require.Len(t, j.Lines, 2)
	assert.Equal(t, "acc-ar", j.Lines[0].AccountID)
	assert.Equal(t, j.ID, j.Lines[1].JournalID)

	got, err := uc.GetJournal(ctx, j.ID)
	require.NoError(t, err)
	debit, credit := got.Totals()
	assert.True(t, debit.Equal(credit))
	assert.True(t, debit.Equal(d("1000")))
}

func TestPost_EscenarioD_DescuadradoNoCreaNada(t *testing.T) {
	uc, store := newPosting(t)

	_, err := uc.Post(context.Background(), accounting.PostRequest{Lines: saleLines("1000", "900")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnbalancedJournal)
	var ue *domain.UnbalancedJournalError
	require.True(t, errors.As(err, &ue))
	assert.True(t, ue.Debit.Equal(d("1000")))
	assert.True(t, ue.Credit.Equal(d("900")))
	assert.Equal(t, 0, store.JournalCount())
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestPost_CuentaInexistenteNoCreaNiConsumeConsecutivo(t *testing.T) {
	uc, store := newPosting(t)
	ctx := context.Background()

	_, err := uc.Post(ctx, accounting.PostRequest{Lines: []accounting.PostLine{
		{AccountCode: codeAR, Debit: d("10")},
		{AccountCode: "999999", Credit: d("10")},
	}})
	require.Error(t, err)
	var ane *domain.AccountNotFoundError
	require.True(t, errors.As(err, &ane))
	assert.Equal(t, "999999", ane.Code)
	assert.Equal(t, 0, store.JournalCount())

	j, err := uc.Post(ctx, accounting.PostRequest{Lines: saleLines("10", "10")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), j.Number, "un asiento fallido no deja huecos en la numeración")
}

func TestPost_ConsecutivoCreciente(t *testing.T) {
	uc, _ := newPosting(t)
	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		j, err := uc.Post(ctx, accounting.PostRequest{Lines: saleLines("5", "5")})
		require.NoError(t, err)
		assert.Equal(t, want, j.Number)
	}
}

func TestValidateLines(t *testing.T) {
	cases := []struct {
		name  string
		lines []accounting.PostLine
		want  error
	}{
		{"una sola línea", []accounting.PostLine{{AccountCode: codeAR, Debit: d("1")}}, domain.ErrInvalidInput},
		{"monto negativo", saleLines("-1", "-1"), domain.ErrInvalidInput},
		{"débito y crédito en la misma línea", []accounting.PostLine{
			{AccountCode: codeAR, Debit: d("1"), Credit: d("1")},
			{AccountCode: codeRevenue, Credit: d("0")},
		}, domain.ErrInvalidInput},
		{"más decimales que la moneda", saleLines("1.005", "1.005"), domain.ErrInvalidInput},
		{"asiento en cero", saleLines("0", "0"), domain.ErrInvalidInput},
		{"sin código de cuenta", []accounting.PostLine{{Debit: d("1")}, {AccountCode: codeRevenue, Credit: d("1")}}, domain.ErrInvalidInput},
		{"descuadrado por un centavo", saleLines("100.01", "100.00"), domain.ErrUnbalancedJournal},
		{"cuadrado", saleLines("100.10", "100.1"), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := accounting.ValidateLines(tc.lines, 2)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestGetJournal_NoExiste(t *testing.T) {
	uc, _ := newPosting(t)
	_, err := uc.GetJournal(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
