package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Descuento is a percentage promotion attached to products.
// CantidadMinima == 1 makes it a direct offer (active from the first unit);
// > 1 makes it a bulk/wholesale rule. The classification is derived, never
// stored.
type Descuento struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string          `gorm:"not null"`
	Porcentaje     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CantidadMinima int             `gorm:"not null;default:1"`
	Activo         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EsMayorista reports whether the rule only kicks in past a quantity
// threshold.
func (d *Descuento) EsMayorista() bool { return d.CantidadMinima > 1 }

func (Descuento) TableName() string { return "descuentos" }
