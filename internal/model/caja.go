package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger categories used by the UI. Categoria is stored as free text but
// writes go through this closed set.
const (
	CategoriaVenta     = "venta"
	CategoriaCompra    = "compra"
	CategoriaAnulacion = "anulacion"
	CategoriaManual    = "manual"
)

// MovimientoCaja is one row of the running cash-balance ledger. Append-only:
// every entry captures the balance before and after, and the chain invariant
// holds by construction — saldo_anterior of row n equals saldo_nuevo of row
// n-1 (0 for the first row). Secuencia is the ordering key.
//
// The only deletion path is an explicit out-of-band correction that does NOT
// recompute later balances; see CajaService.EliminarMovimiento.
type MovimientoCaja struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Secuencia int64     `gorm:"autoIncrement;uniqueIndex;not null"`

	Tipo          string          `gorm:"type:varchar(10);not null"` // "ingreso" | "egreso"
	Categoria     string          `gorm:"type:varchar(20);not null"`
	Descripcion   string          `gorm:"not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"` // always > 0; Tipo carries the sign
	SaldoAnterior decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoNuevo    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Fecha   time.Time `gorm:"not null;index"`
	Usuario string    `gorm:"not null"` // actor label

	// ReferenciaID links to the originating Venta or Lote when applicable.
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
