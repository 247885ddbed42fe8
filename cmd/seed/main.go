// seed migra el esquema y carga en PostgreSQL el plan de cuentas de config más un catálogo
// JSON de ítems, cuentas y política global de costeo.
//
// Uso: go run ./cmd/seed [ruta/catalog.json]
// Sin argumento usa CATALOG_FILE; si tampoco está definido solo siembra las cuentas.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costing-ledger/internal/infrastructure/catalog"
	"github.com/jhoicas/costing-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/costing-ledger/pkg/config"
	"github.com/jhoicas/costing-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	path := cfg.Catalog.File
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	var file *catalog.File
	if path != "" {
		file, err = catalog.Load(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("catálogo")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	var sum catalog.Summary
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		var applyErr error
		sum, applyErr = catalog.Apply(ctx, catalog.NewPostgresSink(tx), file, cfg.Accounts)
		return applyErr
	})
	if err != nil {
		log.Fatal().Err(err).Msg("sembrar catálogo")
	}
	log.Info().
		Str("file", path).
		Int("items", sum.Items).
		Int("accounts", sum.Accounts).
		Str("policy", sum.Policy).
		Msg("catálogo sembrado")
}
