package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock registra cada cambio del agregado de stock de un producto.
// Se crea automáticamente al comprar, vender, anular o ajustar.
//
// An anulacion movement returns quantity to the aggregate directly — it does
// NOT re-increment the lots the sale consumed, so lot-level history after a
// void no longer reflects which physical batch holds the returned stock.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"not null"` // "compra" | "venta" | "anulacion" | "ajuste"
	Cantidad      int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // venta_id or lote_id if applicable
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
