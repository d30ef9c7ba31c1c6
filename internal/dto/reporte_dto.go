package dto

import "github.com/shopspring/decimal"

// ResumenResponse aggregates the totals consumed by the reporting screens.
type ResumenResponse struct {
	TotalComprado decimal.Decimal `json:"total_comprado"`
	// TotalVendido excludes voided sales.
	TotalVendido decimal.Decimal `json:"total_vendido"`
	// MargenBruto = Σ over non-voided sale lines of
	// (precio_unitario − precio_costo) × cantidad.
	MargenBruto decimal.Decimal `json:"margen_bruto"`
	// ValorInventario = Σ stock_actual × precio_costo over active products.
	ValorInventario decimal.Decimal `json:"valor_inventario"`
	SaldoCaja       decimal.Decimal `json:"saldo_caja"`
}
