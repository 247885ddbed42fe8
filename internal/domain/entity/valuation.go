package entity

import "github.com/shopspring/decimal"

// Valuation saldo valorizado de un ítem en una bodega.
type Valuation struct {
	ItemID      string
	WarehouseID string
	Method      CostingMethod
	Quantity    decimal.Decimal
	Value       decimal.Decimal
	AvgCost     decimal.Decimal
}
