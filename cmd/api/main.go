package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/costing-ledger/internal/application/accounting"
	"github.com/jhoicas/costing-ledger/internal/application/costing"
	"github.com/jhoicas/costing-ledger/internal/application/operations"
	"github.com/jhoicas/costing-ledger/internal/application/ports"
	"github.com/jhoicas/costing-ledger/internal/infrastructure/catalog"
	"github.com/jhoicas/costing-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/costing-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/costing-ledger/internal/interfaces/http"
	"github.com/jhoicas/costing-ledger/pkg/config"
	"github.com/jhoicas/costing-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var txRunner ports.TxRunner
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		seedMemory(ctx, log, cfg, store)
		txRunner = memory.NewTxRunner(store)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración del esquema")
			}
			log.Info().Msg("esquema migrado")
		}
		txRunner = postgres.NewTxRunner(pool, cfg.DB.LockTimeout)
	}

	costingUC := costing.NewCostingUseCase(txRunner)
	postingUC := accounting.NewPostingUseCase(txRunner, cfg.Ledger.CurrencyScale)
	operationsUC := operations.NewOperationsUseCase(txRunner, costingUC, postingUC, operations.Accounts{
		Inventory:  cfg.Accounts.Inventory,
		Receivable: cfg.Accounts.Receivable,
		Revenue:    cfg.Accounts.Revenue,
		COGS:       cfg.Accounts.COGS,
		GRNI:       cfg.Accounts.GRNI,
		Adjustment: cfg.Accounts.Adjustment,
		WIP:        cfg.Accounts.WIP,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Costing Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CostingUC:    costingUC,
		PostingUC:    postingUC,
		OperationsUC: operationsUC,
		JWTSecret:    cfg.JWT.Secret,
		StoreDriver:  cfg.Store.Driver,
		Logger:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// seedMemory carga plan de cuentas y, si está configurado, el catálogo en el almacén en memoria.
func seedMemory(ctx context.Context, log *logger.Logger, cfg *config.Config, store *memory.Store) {
	var file *catalog.File
	if cfg.Catalog.File != "" {
		f, err := catalog.Load(cfg.Catalog.File)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.Catalog.File).Msg("catálogo")
		}
		file = f
	}
	sum, err := catalog.Apply(ctx, catalog.MemorySink{Store: store}, file, cfg.Accounts)
	if err != nil {
		log.Fatal().Err(err).Msg("sembrar almacén en memoria")
	}
	log.Info().
		Int("items", sum.Items).
		Int("accounts", sum.Accounts).
		Str("policy", sum.Policy).
		Msg("almacén en memoria sembrado")
}
