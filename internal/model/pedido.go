package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Origen values for Pedido.
const (
	OrigenPOS = "pos"
	OrigenWeb = "web"
)

// Pedido is a customer purchase request moving through the status state
// machine (see estado_pedido.go). It is distinct from a Venta: a pedido only
// becomes money when it is processed into a sale.
type Pedido struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero int       `gorm:"uniqueIndex;not null"`
	Origen string    `gorm:"type:varchar(10);not null"`
	Estado int       `gorm:"not null;default:1;index"`

	ContactoNombre   string `gorm:"not null"`
	ContactoTelefono string `gorm:"not null;index"`
	// Delivery address — required iff EsDomicilio (enforced at the service
	// boundary, pickup orders leave these nil).
	EsDomicilio    bool `gorm:"not null;default:false"`
	Calle          *string
	NumeroExterior *string
	Colonia        *string

	Total decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ExpiraEn only matters while Estado == EstadoPendiente; once confirmed
	// the timer is irrelevant.
	ExpiraEn  *time.Time
	ClienteID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items   []PedidoItem `gorm:"foreignKey:PedidoID"`
	Cliente *Cliente     `gorm:"foreignKey:ClienteID"`
}

// NumeroDisplay renders the public order number, e.g. ORD-00050.
func (p *Pedido) NumeroDisplay() string { return fmt.Sprintf("ORD-%05d", p.Numero) }

// PedidoItem snapshots price and discount at order time so later catalog
// edits don't rewrite history.
type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DescuentoPct   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
