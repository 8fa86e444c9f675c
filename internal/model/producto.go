package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog item sold both at the POS and in the storefront.
// DescuentoID is nullable: deleting a discount orphans the reference and the
// product simply sells at list price again.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	CategoriaID *uuid.UUID      `gorm:"type:uuid;index"`
	DescuentoID *uuid.UUID      `gorm:"type:uuid;index"`
	// ImagenURL is stored normalized (absolute URL); file upload handling
	// lives in the admin frontend.
	ImagenURL *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
	Descuento *Descuento `gorm:"foreignKey:DescuentoID;constraint:OnDelete:SET NULL"`
}
