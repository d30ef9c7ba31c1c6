package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ProductoFilter is bound from the query string of GET /v1/productos.
type ProductoFilter struct {
	Activo    string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Request DTOs ───────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo      *string         `json:"codigo"`
	Nombre      string          `json:"nombre"       validate:"required"`
	Categoria   string          `json:"categoria"    validate:"required"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"required,gt=0"`
	MargenPct   decimal.Decimal `json:"margen_pct"   validate:"min=0"`
}

// ActualizarProductoRequest: nil fields are left untouched. Changing cost or
// margin recomputes the derived sale price and writes a HistorialPrecio row.
type ActualizarProductoRequest struct {
	Codigo      *string          `json:"codigo"`
	Nombre      *string          `json:"nombre"`
	Categoria   *string          `json:"categoria"`
	PrecioCosto *decimal.Decimal `json:"precio_costo"`
	MargenPct   *decimal.Decimal `json:"margen_pct"`
}

// ─── Response DTOs ──────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Codigo      *string         `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Categoria   string          `json:"categoria"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	MargenPct   decimal.Decimal `json:"margen_pct"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	StockActual int             `json:"stock_actual"`
	Activo      bool            `json:"activo"`
	CreatedAt   string          `json:"created_at"`
}

// ConsultaPreciosResponse is served by the public cached price endpoint.
type ConsultaPreciosResponse struct {
	Nombre          string          `json:"nombre"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	StockDisponible int             `json:"stock_disponible"`
	Categoria       string          `json:"categoria"`
}

type HistorialPrecioResponse struct {
	CostoAntes   decimal.Decimal `json:"costo_antes"`
	CostoDespues decimal.Decimal `json:"costo_despues"`
	VentaAntes   decimal.Decimal `json:"venta_antes"`
	VentaDespues decimal.Decimal `json:"venta_despues"`
	MargenPct    decimal.Decimal `json:"margen_pct"`
	Motivo       string          `json:"motivo"`
	Fecha        string          `json:"fecha"`
}
