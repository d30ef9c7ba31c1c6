package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente represents a customer. Sales reference clients but do not own them.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	NIT       string    `gorm:"column:nit;uniqueIndex;not null"`
	Telefono  *string
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }
