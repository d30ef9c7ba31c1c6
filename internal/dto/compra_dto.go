package dto

import "github.com/shopspring/decimal"

type RegistrarCompraRequest struct {
	ProductoID    string          `json:"producto_id"    validate:"required,uuid"`
	Cantidad      int             `json:"cantidad"       validate:"required,min=1"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"required,gt=0"`
	ProveedorID   *string         `json:"proveedor_id"   validate:"omitempty,uuid"`
	NroDocumento  *string         `json:"nro_documento"`
	// Fecha in dd/mm/yyyy[ HH:MM:SS]; empty means now.
	Fecha      string `json:"fecha"`
	Perecedero bool   `json:"perecedero"`
	// Vencimiento in dd/mm/yyyy — required when Perecedero.
	Vencimiento *string `json:"vencimiento"`
	// RegistrarEgreso: when true the egreso ledger entry is appended inside
	// the same transaction as the lot. When false the caller owns the cash
	// bookkeeping (two-step contract).
	RegistrarEgreso bool `json:"registrar_egreso"`
}

type CompraResponse struct {
	LoteID             string          `json:"lote_id"`
	Producto           string          `json:"producto"`
	Proveedor          string          `json:"proveedor"`
	CantidadRecibida   int             `json:"cantidad_recibida"`
	CantidadDisponible int             `json:"cantidad_disponible"`
	CostoUnitario      decimal.Decimal `json:"costo_unitario"`
	CostoTotal         decimal.Decimal `json:"costo_total"`
	FechaIngreso       string          `json:"fecha_ingreso"` // dd/mm/yyyy HH:MM:SS
	NroDocumento       *string         `json:"nro_documento"`
	Perecedero         bool            `json:"perecedero"`
	Vencimiento        *string         `json:"vencimiento"` // dd/mm/yyyy
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// PorVencerResponse lists perishable lots close to their expiry date.
type PorVencerResponse struct {
	LoteID      string `json:"lote_id"`
	Producto    string `json:"producto"`
	Disponible  int    `json:"disponible"`
	Vencimiento string `json:"vencimiento"` // dd/mm/yyyy
	DiasRestan  int    `json:"dias_restantes"`
}
