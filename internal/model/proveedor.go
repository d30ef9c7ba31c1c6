package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor represents a supplier. Referenced, not owned, by lots: a lot may
// point to a deleted supplier, in which case display falls back to a
// placeholder label.
type Proveedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"not null"`
	NIT         string    `gorm:"column:nit;uniqueIndex;not null"`
	Telefono    *string
	Email       *string
	Direccion   *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
