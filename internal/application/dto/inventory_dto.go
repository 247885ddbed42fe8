package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/domain/entity"
)

// ReceiptRequest body para POST /api/inventory/receipts.
type ReceiptRequest struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	RefType     string          `json:"ref_type"`
	RefID       string          `json:"ref_id"`
}

// IssueRequest body para POST /api/inventory/issues.
type IssueRequest struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	RefType     string          `json:"ref_type"`
	RefID       string          `json:"ref_id"`
}

// IssueResponse costo asignado a la salida.
type IssueResponse struct {
	Method   string          `json:"method"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Value    decimal.Decimal `json:"value"`
}

// ValuationResponse respuesta de GET /api/inventory/valuation.
type ValuationResponse struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Method      string          `json:"method"`
	Quantity    decimal.Decimal `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	AvgCost     decimal.Decimal `json:"avg_cost"`
}

// FromValuation mapea la valoración de dominio.
func FromValuation(v entity.Valuation) ValuationResponse {
	return ValuationResponse{
		ItemID:      v.ItemID,
		WarehouseID: v.WarehouseID,
		Method:      string(v.Method),
		Quantity:    v.Quantity,
		Value:       v.Value,
		AvgCost:     v.AvgCost,
	}
}

// LedgerEntryDTO línea del kárdex.
type LedgerEntryDTO struct {
	ID             string          `json:"id"`
	Seq            int64           `json:"seq"`
	Direction      string          `json:"direction"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Value          decimal.Decimal `json:"value"`
	RunningQty     decimal.Decimal `json:"running_qty"`
	RunningValue   decimal.Decimal `json:"running_value"`
	RunningAvgCost decimal.Decimal `json:"running_avg_cost"`
	RefType        string          `json:"ref_type"`
	RefID          string          `json:"ref_id"`
	LotID          string          `json:"lot_id,omitempty"`
	Actor          string          `json:"actor"`
	CreatedAt      time.Time       `json:"created_at"`
}

// StockCardResponse kárdex paginado de (ítem, bodega).
type StockCardResponse struct {
	ItemID      string           `json:"item_id"`
	WarehouseID string           `json:"warehouse_id"`
	Entries     []LedgerEntryDTO `json:"entries"`
	Page        PageResponse     `json:"page"`
}

// FromLedgerEntry mapea una entrada del kárdex.
func FromLedgerEntry(e *entity.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:             e.ID,
		Seq:            e.Seq,
		Direction:      string(e.Direction),
		Quantity:       e.Quantity,
		UnitCost:       e.UnitCost,
		Value:          e.Value,
		RunningQty:     e.RunningQty,
		RunningValue:   e.RunningValue,
		RunningAvgCost: e.RunningAvgCost,
		RefType:        e.RefType,
		RefID:          e.RefID,
		LotID:          e.LotID,
		Actor:          e.Actor,
		CreatedAt:      e.CreatedAt,
	}
}

// LotDTO lote FIFO.
type LotDTO struct {
	ID         string          `json:"id"`
	Quantity   decimal.Decimal `json:"quantity"`
	QtyOnHand  decimal.Decimal `json:"qty_on_hand"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ReceivedAt time.Time       `json:"received_at"`
	RefType    string          `json:"ref_type"`
	RefID      string          `json:"ref_id"`
}

// FromLot mapea un lote.
func FromLot(l *entity.Lot) LotDTO {
	return LotDTO{
		ID:         l.ID,
		Quantity:   l.Quantity,
		QtyOnHand:  l.QtyOnHand,
		UnitCost:   l.UnitCost,
		ReceivedAt: l.ReceivedAt,
		RefType:    l.RefType,
		RefID:      l.RefID,
	}
}
