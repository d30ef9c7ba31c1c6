package dto

import "github.com/shopspring/decimal"

type MovimientoCajaRequest struct {
	Tipo        string          `json:"tipo"        validate:"required,oneof=ingreso egreso"`
	Categoria   string          `json:"categoria"   validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required"`
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
	// Fecha in dd/mm/yyyy[ HH:MM:SS]; empty means now.
	Fecha string `json:"fecha"`
}

type MovimientoCajaResponse struct {
	ID            string          `json:"id"`
	Secuencia     int64           `json:"secuencia"`
	Tipo          string          `json:"tipo"`
	Categoria     string          `json:"categoria"`
	Descripcion   string          `json:"descripcion"`
	Monto         decimal.Decimal `json:"monto"`
	SaldoAnterior decimal.Decimal `json:"saldo_anterior"`
	SaldoNuevo    decimal.Decimal `json:"saldo_nuevo"`
	Fecha         string          `json:"fecha"` // dd/mm/yyyy HH:MM:SS
	Usuario       string          `json:"usuario"`
}

type SaldoResponse struct {
	Saldo decimal.Decimal `json:"saldo"`
}

// CajaFilter is bound from the query string of GET /v1/caja/movimientos.
// Desde/Hasta are inclusive, dd/mm/yyyy.
type CajaFilter struct {
	Desde string `form:"desde"`
	Hasta string `form:"hasta"`
}
