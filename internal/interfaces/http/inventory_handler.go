package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costing-ledger/internal/application/costing"
	"github.com/jhoicas/costing-ledger/internal/application/dto"
	"github.com/jhoicas/costing-ledger/pkg/logger"
)

// InventoryHandler maneja entradas, salidas y consultas de valoración (protegido).
type InventoryHandler struct {
	uc  *costing.CostingUseCase
	log *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *costing.CostingUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// Receive godoc
// @Summary      Registrar entrada de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiptRequest  true  "item_id, warehouse_id, quantity > 0, unit_cost >= 0"
// @Success      201   {object}  dto.ValuationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	err := h.uc.Receive(c.Context(), costing.ReceiptInput{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		RefType:     in.RefType,
		RefID:       in.RefID,
		Actor:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	v, err := h.uc.ValueOf(c.Context(), in.ItemID, in.WarehouseID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromValuation(v))
}

// Issue godoc
// @Summary      Registrar salida de inventario
// @Description  Costea la salida según el método del ítem (FIFO o promedio ponderado).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueRequest  true  "item_id, warehouse_id, quantity > 0"
// @Success      201   {object}  dto.IssueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.InsufficientStockResponse
// @Router       /api/inventory/issues [post]
func (h *InventoryHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Issue(c.Context(), costing.IssueInput{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		RefType:     in.RefType,
		RefID:       in.RefID,
		Actor:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IssueResponse{
		Method:   string(res.Method),
		UnitCost: res.UnitCost,
		Value:    res.Value,
	})
}

// Valuation godoc
// @Summary      Valoración actual de un ítem en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  true  "ítem"
// @Param        warehouse_id  query  string  true  "bodega"
// @Success      200  {object}  dto.ValuationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/valuation [get]
func (h *InventoryHandler) Valuation(c *fiber.Ctx) error {
	v, err := h.uc.ValueOf(c.Context(), c.Query("item_id"), c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.FromValuation(v))
}

// StockCard godoc
// @Summary      Kárdex de un ítem en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  true   "ítem"
// @Param        warehouse_id  query  string  true   "bodega"
// @Param        limit         query  int     false  "máximo de entradas (20 por defecto)"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {object}  dto.StockCardResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-card [get]
func (h *InventoryHandler) StockCard(c *fiber.Ctx) error {
	itemID, warehouseID := c.Query("item_id"), c.Query("warehouse_id")
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	page.DefaultPage()

	entries, err := h.uc.StockCard(c.Context(), itemID, warehouseID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	total := len(entries)
	from := min(page.Offset, total)
	to := min(from+page.Limit, total)

	out := dto.StockCardResponse{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Entries:     make([]dto.LedgerEntryDTO, 0, to-from),
		Page:        dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, e := range entries[from:to] {
		out.Entries = append(out.Entries, dto.FromLedgerEntry(e))
	}
	return c.JSON(out)
}

// Lots godoc
// @Summary      Lotes FIFO de un ítem en una bodega (incluye agotados)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  true  "ítem"
// @Param        warehouse_id  query  string  true  "bodega"
// @Success      200  {array}   dto.LotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots [get]
func (h *InventoryHandler) Lots(c *fiber.Ctx) error {
	lots, err := h.uc.Lots(c.Context(), c.Query("item_id"), c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.LotDTO, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.FromLot(l))
	}
	return c.JSON(out)
}
