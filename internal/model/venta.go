package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoComprobante values for Venta.
const (
	ComprobanteTicket  = "ticket"
	ComprobanteFactura = "factura"
)

// Venta is a finalized, paid transaction — distinct from a Pedido. It is
// created either directly from a POS cart checkout or by processing a
// completed pedido into a sale. Totals: Subtotal is the discounted sum of
// lines, IVA is the fixed 16% applied once over that subtotal.
type Venta struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket int       `gorm:"uniqueIndex;not null"`
	UsuarioID    uuid.UUID `gorm:"type:uuid;not null"`
	// PedidoID links back to the originating pedido when the sale came from
	// the order flow; nil for direct POS sales.
	PedidoID *uuid.UUID `gorm:"type:uuid;index"`

	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IVA             decimal.Decimal `gorm:"type:decimal(12,2);not null;column:iva"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TipoComprobante string          `gorm:"type:varchar(10);not null;default:'ticket'"`
	Estado          string          `gorm:"type:varchar(20);not null;default:'completada'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items   []VentaItem `gorm:"foreignKey:VentaID"`
	Usuario *Usuario    `gorm:"foreignKey:UsuarioID"`
}

// VentaItem snapshots the financials of one sold line.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DescuentoItem  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
