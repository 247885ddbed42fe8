package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costing-ledger/internal/application/dto"
	"github.com/jhoicas/costing-ledger/internal/application/operations"
	"github.com/jhoicas/costing-ledger/pkg/logger"
)

// OperationsHandler operaciones de negocio que mueven inventario y contabilizan (protegido).
type OperationsHandler struct {
	uc  *operations.OperationsUseCase
	log *logger.Logger
}

// NewOperationsHandler construye el handler.
func NewOperationsHandler(uc *operations.OperationsUseCase, log *logger.Logger) *OperationsHandler {
	return &OperationsHandler{uc: uc, log: log}
}

// DeliverSale godoc
// @Summary      Entrega de venta
// @Description  Salida de inventario y asiento de venta y costo en una sola transacción.
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeliverSaleRequest  true  "sale_id, warehouse_id, lines"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.InsufficientStockResponse
// @Router       /api/operations/sales-deliveries [post]
func (h *OperationsHandler) DeliverSale(c *fiber.Ctx) error {
	var in dto.DeliverSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]operations.SaleLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, operations.SaleLine{ItemID: l.ItemID, Quantity: l.Quantity, Amount: l.Amount})
	}
	res, err := h.uc.DeliverSale(c.Context(), operations.DeliverSaleInput{
		SaleID:      in.SaleID,
		WarehouseID: in.WarehouseID,
		Lines:       lines,
		Memo:        in.Memo,
		Actor:       GetUserID(c),
		Date:        dto.DateOrZero(in.Date),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOperationResponse(res))
}

// ReceivePurchase godoc
// @Summary      Recepción de compra
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceivePurchaseRequest  true  "purchase_id, warehouse_id, lines"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/operations/purchase-receipts [post]
func (h *OperationsHandler) ReceivePurchase(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]operations.PurchaseLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, operations.PurchaseLine{ItemID: l.ItemID, Quantity: l.Quantity, UnitCost: l.UnitCost})
	}
	res, err := h.uc.ReceivePurchase(c.Context(), operations.ReceivePurchaseInput{
		PurchaseID:  in.PurchaseID,
		WarehouseID: in.WarehouseID,
		Lines:       lines,
		Memo:        in.Memo,
		Actor:       GetUserID(c),
		Date:        dto.DateOrZero(in.Date),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOperationResponse(res))
}

// Transfer godoc
// @Summary      Traslado entre bodegas
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "transfer_id, item_id, from/to warehouse, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.InsufficientStockResponse
// @Router       /api/operations/transfers [post]
func (h *OperationsHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.TransferStock(c.Context(), operations.TransferInput{
		TransferID:      in.TransferID,
		ItemID:          in.ItemID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Actor:           GetUserID(c),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := dto.TransferResponse{Issued: toLineCostDTO(res.Issued)}
	for _, l := range res.Received {
		out.Received = append(out.Received, toLineCostDTO(l))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajuste de inventario
// @Description  quantity positiva = sobrante (a unit_cost), negativa = faltante (al costo vigente).
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "adjustment_id, item_id, warehouse_id, quantity"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.InsufficientStockResponse
// @Router       /api/operations/adjustments [post]
func (h *OperationsHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.AdjustStock(c.Context(), operations.AdjustInput{
		AdjustmentID: in.AdjustmentID,
		ItemID:       in.ItemID,
		WarehouseID:  in.WarehouseID,
		Quantity:     in.Quantity,
		UnitCost:     in.UnitCost,
		Reason:       in.Reason,
		Actor:        GetUserID(c),
		Date:         dto.DateOrZero(in.Date),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOperationResponse(res))
}

// IssueMaterial godoc
// @Summary      Consumo de materiales para producción
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MaterialIssueRequest  true  "production_order_id, warehouse_id, lines"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.InsufficientStockResponse
// @Router       /api/operations/material-issues [post]
func (h *OperationsHandler) IssueMaterial(c *fiber.Ctx) error {
	var in dto.MaterialIssueRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]operations.MaterialLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, operations.MaterialLine{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	res, err := h.uc.IssueMaterial(c.Context(), operations.IssueMaterialInput{
		ProductionOrderID: in.ProductionOrderID,
		WarehouseID:       in.WarehouseID,
		Lines:             lines,
		Actor:             GetUserID(c),
		Date:              dto.DateOrZero(in.Date),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOperationResponse(res))
}

func toLineCostDTO(l operations.LineCost) dto.LineCostDTO {
	return dto.LineCostDTO{
		ItemID:      l.ItemID,
		WarehouseID: l.WarehouseID,
		Quantity:    l.Quantity,
		UnitCost:    l.UnitCost,
		Value:       l.Value,
		Method:      string(l.Method),
	}
}

func toOperationResponse(res *operations.Result) dto.OperationResponse {
	out := dto.OperationResponse{
		Lines:   make([]dto.LineCostDTO, 0, len(res.Lines)),
		Journal: dto.FromJournal(res.Journal),
	}
	for _, l := range res.Lines {
		out.Lines = append(out.Lines, toLineCostDTO(l))
	}
	return out
}
