package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costing-ledger/internal/application/accounting"
	"github.com/jhoicas/costing-ledger/internal/application/costing"
	"github.com/jhoicas/costing-ledger/internal/application/dto"
	"github.com/jhoicas/costing-ledger/internal/application/operations"
	"github.com/jhoicas/costing-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CostingUC    *costing.CostingUseCase
	PostingUC    *accounting.PostingUseCase
	OperationsUC *operations.OperationsUseCase
	JWTSecret    string
	StoreDriver  string
	Logger       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	app.Use(RequestLogger(log))

	// Health (público)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Store: deps.StoreDriver})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(RoleAdmin, RoleWarehouse, RoleAccountant)
	warehouseRoles := RequireRole(RoleAdmin, RoleWarehouse)
	accountingRoles := RequireRole(RoleAdmin, RoleAccountant)

	// Inventario: movimientos de bodega y consultas
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.CostingUC, log)
	inv.Post("/receipts", warehouseRoles, inventoryHandler.Receive)
	inv.Post("/issues", warehouseRoles, inventoryHandler.Issue)
	inv.Get("/valuation", anyRole, inventoryHandler.Valuation)
	inv.Get("/stock-card", anyRole, inventoryHandler.StockCard)
	inv.Get("/lots", anyRole, inventoryHandler.Lots)

	// Libro mayor
	journals := protected.Group("/journals")
	journalHandler := NewJournalHandler(deps.PostingUC, log)
	journals.Post("/", accountingRoles, journalHandler.Post)
	journals.Get("/:id", anyRole, journalHandler.GetByID)

	// Operaciones de negocio (inventario + asiento en una transacción)
	ops := protected.Group("/operations", warehouseRoles)
	opsHandler := NewOperationsHandler(deps.OperationsUC, log)
	ops.Post("/sales-deliveries", opsHandler.DeliverSale)
	ops.Post("/purchase-receipts", opsHandler.ReceivePurchase)
	ops.Post("/transfers", opsHandler.Transfer)
	ops.Post("/adjustments", opsHandler.Adjust)
	ops.Post("/material-issues", opsHandler.IssueMaterial)
}

// RequestLogger registra cada petición con método, ruta, estado, latencia y actor.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("actor", GetUserID(c)).
			Msg("http request")
		return err
	}
}
