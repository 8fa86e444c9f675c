package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a storefront customer. Orders reference customers loosely by
// phone: WhatsApp checkout creates orders for people who never registered.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Telefono  string    `gorm:"uniqueIndex;not null"`
	Email     *string
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }
