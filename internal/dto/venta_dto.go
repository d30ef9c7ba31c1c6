package dto

import "github.com/shopspring/decimal"

// ─── Requests ───────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
	// PrecioUnitario is the price actually charged. Nil means the catalog
	// sale price; a lower value represents a discount.
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"`
}

type RegistrarVentaRequest struct {
	ClienteID *string            `json:"cliente_id" validate:"omitempty,uuid"`
	Items     []ItemVentaRequest `json:"items"      validate:"required,min=1,dive"`
	// Fecha in dd/mm/yyyy[ HH:MM:SS]; empty means now.
	Fecha string `json:"fecha"`
}

// ─── Responses ──────────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID         string              `json:"id"`
	Referencia string              `json:"referencia"`
	Cliente    string              `json:"cliente"`
	Items      []ItemVentaResponse `json:"items"`
	Total      decimal.Decimal     `json:"total"`
	Estado     string              `json:"estado"`
	Fecha      string              `json:"fecha"` // dd/mm/yyyy HH:MM:SS
}

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Desde  string `form:"desde"` // dd/mm/yyyy; empty = no lower bound
	Hasta  string `form:"hasta"`
	Estado string `form:"estado"` // emitida | anulada | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
