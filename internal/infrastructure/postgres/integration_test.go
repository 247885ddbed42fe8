package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costing-ledger/internal/application/accounting"
	"github.com/jhoicas/costing-ledger/internal/application/costing"
	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/costing-ledger/pkg/config"
)

// setupTestDB conecta a TEST_DATABASE_URL y migra. Sin la variable la prueba se omite para no
// tocar una base real. Cada prueba usa ids propios, así no hace falta truncar.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL no definido: se omite la prueba de integración")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dbURL, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	require.NoError(t, postgres.Migrate(ctx, pool), "la migración es idempotente")
	return pool
}

func seedItem(t *testing.T, pool *pgxpool.Pool, method entity.CostingMethod) string {
	t.Helper()
	id := "it-" + uuid.NewString()
	repo := postgres.NewItemRepository(pool)
	require.NoError(t, repo.Upsert(context.Background(), &entity.Item{ID: id, SKU: id, Name: "prueba", CostingMethod: method}))
	return id
}

func seedAccount(t *testing.T, pool *pgxpool.Pool, typ entity.AccountType) string {
	t.Helper()
	code := "T" + uuid.NewString()[:8]
	repo := postgres.NewAccountRepository(pool)
	require.NoError(t, repo.Upsert(context.Background(), &entity.Account{ID: uuid.NewString(), Code: code, Name: code, Type: typ}))
	return code
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPostgres_PromedioPonderado(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	uc := costing.NewCostingUseCase(postgres.NewTxRunner(pool, 5*time.Second))
	item, wh := seedItem(t, pool, entity.CostingWeightedAvg), "wh-"+uuid.NewString()

	require.NoError(t, uc.Receive(ctx, costing.ReceiptInput{ItemID: item, WarehouseID: wh, Quantity: d("10"), UnitCost: d("100")}))
	require.NoError(t, uc.Receive(ctx, costing.ReceiptInput{ItemID: item, WarehouseID: wh, Quantity: d("10"), UnitCost: d("200")}))

	res, err := uc.Issue(ctx, costing.IssueInput{ItemID: item, WarehouseID: wh, Quantity: d("5")})
	require.NoError(t, err)
	assert.True(t, res.UnitCost.Equal(d("150")), res.UnitCost.String())
	assert.True(t, res.Value.Equal(d("750")), res.Value.String())

	v, err := uc.ValueOf(ctx, item, wh)
	require.NoError(t, err)
	assert.True(t, v.Quantity.Equal(d("15")))
	assert.True(t, v.Value.Equal(d("2250")))

	card, err := uc.StockCard(ctx, item, wh)
	require.NoError(t, err)
	require.Len(t, card, 3)
	assert.Equal(t, entity.DirectionOUT, card[2].Direction)
}

func TestPostgres_FIFOConsumeLotesEnOrden(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	uc := costing.NewCostingUseCase(postgres.NewTxRunner(pool, 5*time.Second))
	item, wh := seedItem(t, pool, entity.CostingFIFO), "wh-"+uuid.NewString()

	require.NoError(t, uc.Receive(ctx, costing.ReceiptInput{ItemID: item, WarehouseID: wh, Quantity: d("10"), UnitCost: d("10")}))
	require.NoError(t, uc.Receive(ctx, costing.ReceiptInput{ItemID: item, WarehouseID: wh, Quantity: d("10"), UnitCost: d("12")}))

	res, err := uc.Issue(ctx, costing.IssueInput{ItemID: item, WarehouseID: wh, Quantity: d("15")})
	require.NoError(t, err)
	assert.True(t, res.Value.Equal(d("160")), res.Value.String())
	require.Len(t, res.Layers, 2)

	lots, err := uc.Lots(ctx, item, wh)
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.True(t, lots[0].QtyOnHand.IsZero())
	assert.True(t, lots[1].QtyOnHand.Equal(d("5")))

	_, err = uc.Issue(ctx, costing.IssueInput{ItemID: item, WarehouseID: wh, Quantity: d("6")})
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.True(t, ise.Available.Equal(d("5")))
}

func TestPostgres_SalidasConcurrentesNoSobregiran(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	uc := costing.NewCostingUseCase(postgres.NewTxRunner(pool, 10*time.Second))
	item, wh := seedItem(t, pool, entity.CostingFIFO), "wh-"+uuid.NewString()
	require.NoError(t, uc.Receive(ctx, costing.ReceiptInput{ItemID: item, WarehouseID: wh, Quantity: d("50"), UnitCost: d("2")}))

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for range 15 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Issue(ctx, costing.IssueInput{ItemID: item, WarehouseID: wh, Quantity: d("5")})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			rejected++
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 5, rejected)
	v, err := uc.ValueOf(ctx, item, wh)
	require.NoError(t, err)
	assert.True(t, v.Quantity.IsZero())
	assert.True(t, v.Value.IsZero())
}

func TestPostgres_LockTimeoutEsConflicto(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	item, wh := seedItem(t, pool, entity.CostingWeightedAvg), "wh-"+uuid.NewString()

	holder := postgres.NewTxRunner(pool, 5*time.Second)
	impatient := postgres.NewTxRunner(pool, 100*time.Millisecond)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- holder.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
			if err := repos.Locks.Lock(ctx, item, wh); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	err := impatient.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		return repos.Locks.Lock(ctx, item, wh)
	})
	close(release)
	require.NoError(t, <-done)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestPostgres_NumeracionSinHuecos(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	posting := accounting.NewPostingUseCase(postgres.NewTxRunner(pool, 5*time.Second), 2)
	cash := seedAccount(t, pool, entity.AccountAsset)
	sales := seedAccount(t, pool, entity.AccountRevenue)

	lines := func(credit string) []accounting.PostLine {
		return []accounting.PostLine{
			{AccountCode: cash, Debit: d("10.50")},
			{AccountCode: credit, Credit: d("10.50")},
		}
	}

	first, err := posting.Post(ctx, accounting.PostRequest{Lines: lines(sales), Memo: "uno", Actor: "tester"})
	require.NoError(t, err)

	_, err = posting.Post(ctx, accounting.PostRequest{Lines: lines("NO-EXISTE-" + uuid.NewString()[:6])})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	second, err := posting.Post(ctx, accounting.PostRequest{Lines: lines(sales), Memo: "dos"})
	require.NoError(t, err)
	assert.Equal(t, first.Number+1, second.Number, "el asiento rechazado no consume número")

	got, err := posting.GetJournal(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, cash, got.Lines[0].AccountCode)
	assert.True(t, got.Lines[0].Debit.Equal(d("10.50")))
	assert.Equal(t, "tester", got.PostedBy)

	_, err = posting.GetJournal(ctx, "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
