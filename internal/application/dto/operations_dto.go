package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de entrega de venta.
type SaleLineRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// DeliverSaleRequest body para POST /api/operations/sales-deliveries.
type DeliverSaleRequest struct {
	SaleID      string            `json:"sale_id"`
	WarehouseID string            `json:"warehouse_id"`
	Memo        string            `json:"memo,omitempty"`
	Date        *time.Time        `json:"date,omitempty"`
	Lines       []SaleLineRequest `json:"lines"`
}

// PurchaseLineRequest línea de recepción de compra.
type PurchaseLineRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// ReceivePurchaseRequest body para POST /api/operations/purchase-receipts.
type ReceivePurchaseRequest struct {
	PurchaseID  string                `json:"purchase_id"`
	WarehouseID string                `json:"warehouse_id"`
	Memo        string                `json:"memo,omitempty"`
	Date        *time.Time            `json:"date,omitempty"`
	Lines       []PurchaseLineRequest `json:"lines"`
}

// TransferRequest body para POST /api/operations/transfers.
type TransferRequest struct {
	TransferID      string          `json:"transfer_id"`
	ItemID          string          `json:"item_id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// AdjustmentRequest body para POST /api/operations/adjustments.
// Quantity con signo: positiva sobrante, negativa faltante.
type AdjustmentRequest struct {
	AdjustmentID string          `json:"adjustment_id"`
	ItemID       string          `json:"item_id"`
	WarehouseID  string          `json:"warehouse_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Reason       string          `json:"reason,omitempty"`
	Date         *time.Time      `json:"date,omitempty"`
}

// MaterialLineRequest material consumido.
type MaterialLineRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// MaterialIssueRequest body para POST /api/operations/material-issues.
type MaterialIssueRequest struct {
	ProductionOrderID string                `json:"production_order_id"`
	WarehouseID       string                `json:"warehouse_id"`
	Date              *time.Time            `json:"date,omitempty"`
	Lines             []MaterialLineRequest `json:"lines"`
}

// LineCostDTO costo asignado a una línea de la operación.
type LineCostDTO struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Value       decimal.Decimal `json:"value"`
	Method      string          `json:"method,omitempty"`
}

// OperationResponse resultado de una operación de negocio. Journal es nil si todo fue en cero.
type OperationResponse struct {
	Lines   []LineCostDTO    `json:"lines"`
	Journal *JournalResponse `json:"journal,omitempty"`
}

// TransferResponse resultado de un traslado.
type TransferResponse struct {
	Issued   LineCostDTO   `json:"issued"`
	Received []LineCostDTO `json:"received"`
}

// DateOrZero desreferencia una fecha opcional.
func DateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
