package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costing-ledger/internal/application/costing"
	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/costing-ledger/pkg/config"
)

var testAccounts = config.AccountsConfig{
	Inventory: "1435", Receivable: "1305", Revenue: "4135", COGS: "6135",
	GRNI: "2335", Adjustment: "5310", WIP: "1410",
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Valido(t *testing.T) {
	path := writeFile(t, `{
		"costing_method": "fifo",
		"items": [
			{"id": "item-1", "sku": "A-1", "name": "Tornillo", "costing_method": "WEIGHTED_AVG"},
			{"id": "item-2", "sku": "A-2", "name": "Tuerca"}
		],
		"accounts": [{"code": "1105", "name": "Caja", "type": "asset"}]
	}`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Items, 2)
	assert.Len(t, f.Accounts, 1)
}

func TestLoad_Invalido(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"política global desconocida", `{"costing_method": "LIFO"}`},
		{"ítem sin id", `{"items": [{"sku": "X"}]}`},
		{"ítem duplicado", `{"items": [{"id": "a"}, {"id": "a"}]}`},
		{"método de ítem desconocido", `{"items": [{"id": "a", "costing_method": "LIFO"}]}`},
		{"cuenta sin código", `{"accounts": [{"name": "x", "type": "asset"}]}`},
		{"tipo de cuenta desconocido", `{"accounts": [{"code": "1", "type": "otro"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLoad_JSONMalformado(t *testing.T) {
	_, err := Load(writeFile(t, `{`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDefaultAccounts_OmiteVaciosYDuplicados(t *testing.T) {
	cfg := testAccounts
	cfg.WIP = ""
	cfg.Adjustment = cfg.COGS

	accs := DefaultAccounts(cfg)
	assert.Len(t, accs, 5)
	again := DefaultAccounts(cfg)
	assert.Equal(t, accs[0].ID, again[0].ID, "el id se deriva del código")
}

func TestApply_SiembraMemoriaYCosteaConPolitica(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	f := &File{
		CostingMethod: "fifo",
		Items:         []ItemSeed{{ID: "item-1", Name: "Tornillo"}},
		Accounts:      []AccountSeed{{Code: "1105", Name: "Caja", Type: "asset"}},
	}

	sum, err := Apply(ctx, MemorySink{Store: store}, f, testAccounts)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Items)
	assert.Equal(t, 8, sum.Accounts)
	assert.Equal(t, "FIFO", sum.Policy)

	uc := costing.NewCostingUseCase(memory.NewTxRunner(store))
	require.NoError(t, uc.Receive(ctx, costing.ReceiptInput{
		ItemID: "item-1", WarehouseID: "wh-1",
		Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5),
	}))
	v, err := uc.ValueOf(ctx, "item-1", "wh-1")
	require.NoError(t, err)
	assert.Equal(t, entity.CostingFIFO, v.Method)
}

func TestApply_SinArchivoSoloCuentas(t *testing.T) {
	store := memory.NewStore()
	sum, err := Apply(context.Background(), MemorySink{Store: store}, nil, testAccounts)
	require.NoError(t, err)
	assert.Equal(t, 7, sum.Accounts)
	assert.Zero(t, sum.Items)
	assert.Empty(t, sum.Policy)
}
