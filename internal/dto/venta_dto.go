package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha  string `form:"fecha"`                     // YYYY-MM-DD; empty = today
	Estado string `form:"estado,default=completada"` // completada | anulada | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Requests ────────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// RegistrarVentaRequest is a direct POS checkout: prices and discounts are
// resolved server-side from the catalog, then the 16% IVA overlay is applied
// once over the discounted subtotal.
type RegistrarVentaRequest struct {
	Items           []ItemVentaRequest `json:"items"            validate:"required,min=1,dive"`
	TipoComprobante string             `json:"tipo_comprobante" validate:"omitempty,oneof=ticket factura"`
	PagoRecibido    decimal.Decimal    `json:"pago_recibido"    validate:"required"`
	// ClienteEmail: optional — when present, the comprobante worker mails the
	// PDF receipt.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ProcesarPedidoRequest turns a completed pedido into a sale.
type ProcesarPedidoRequest struct {
	TipoComprobante string `json:"tipo_comprobante" validate:"omitempty,oneof=ticket factura"`
	ClienteEmail    *string `json:"cliente_email"   validate:"omitempty,email"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID              string              `json:"id"`
	NumeroTicket    int                 `json:"numero_ticket"`
	PedidoID        *string             `json:"pedido_id,omitempty"`
	Items           []ItemVentaResponse `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DescuentoTotal  decimal.Decimal     `json:"descuento_total"`
	IVA             decimal.Decimal     `json:"iva"`
	Total           decimal.Decimal     `json:"total"`
	Vuelto          decimal.Decimal     `json:"vuelto"`
	TipoComprobante string              `json:"tipo_comprobante"`
	Estado          string              `json:"estado"`
	CreatedAt       string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
