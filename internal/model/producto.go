package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog entry. StockActual is a cached aggregate: it must
// equal the sum of CantidadDisponible over the product's lots, except for
// products registered before lot tracking existed (back-filled once via
// RecalcularStock).
type Producto struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo *string   `gorm:"uniqueIndex"`
	Nombre string    `gorm:"uniqueIndex;not null"`

	Categoria   string          `gorm:"not null"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MargenPct is the markup percentage over cost.
	MargenPct decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	// PrecioVenta is derived: PrecioCosto * (1 + MargenPct/100).
	// Recomputed whenever cost or margin changes.
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	StockActual int  `gorm:"not null;default:0"`
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Producto) TableName() string { return "productos" }
