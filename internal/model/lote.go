package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lote is a single purchase intake for a product. Historical record: never
// deleted, even when its product is deactivated. CantidadDisponible starts at
// CantidadRecibida and is monotonically non-increasing — only the FIFO
// consumption engine decrements it.
//
// Secuencia is a monotonic bigint assigned on insert; together with
// FechaIngreso it gives the deterministic oldest-first consumption order
// (equal intake time → lower secuencia first).
type Lote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Secuencia int64     `gorm:"autoIncrement;uniqueIndex;not null"`

	ProductoID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	CantidadRecibida   int             `gorm:"not null"`
	CantidadDisponible int             `gorm:"not null"` // invariant: 0 <= disponible <= recibida
	CostoUnitario      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoTotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	FechaIngreso time.Time  `gorm:"not null;index"`
	ProveedorID  *uuid.UUID `gorm:"type:uuid;index"`
	NroDocumento *string

	Perecedero  bool `gorm:"not null;default:false"`
	Vencimiento *time.Time

	CreatedAt time.Time

	Producto  *Producto  `gorm:"foreignKey:ProductoID"`
	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Lote) TableName() string { return "lotes" }
