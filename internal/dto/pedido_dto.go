package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// PedidoFilter is bound from the query string of GET /v1/pedidos.
type PedidoFilter struct {
	Estado int    `form:"estado"` // 0 = todos
	Origen string `form:"origen"` // pos | web | vacío = todos
	Fecha  string `form:"fecha"`  // YYYY-MM-DD
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Requests ────────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// CrearPedidoRequest creates an order from either flow; the handler fixes
// Origen (POS vs public storefront). Delivery address fields are required
// iff EsDomicilio — enforced in the service, not here, because the rule
// spans fields.
type CrearPedidoRequest struct {
	ContactoNombre   string              `json:"contacto_nombre"   validate:"required"`
	ContactoTelefono string              `json:"contacto_telefono" validate:"required,min=8"`
	EsDomicilio      bool                `json:"es_domicilio"`
	Calle            *string             `json:"calle"`
	NumeroExterior   *string             `json:"numero_exterior"`
	Colonia          *string             `json:"colonia"`
	Items            []ItemPedidoRequest `json:"items" validate:"required,min=1,dive"`
}

type CancelarPedidoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	Producto        string          `json:"producto"`
	Cantidad        int             `json:"cantidad"`
	PrecioUnitario  decimal.Decimal `json:"precio_unitario"`
	DescuentoPct    decimal.Decimal `json:"descuento_pct"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Ahorro          decimal.Decimal `json:"ahorro"`
	DescuentoActivo bool            `json:"descuento_activo"`
}

// EstadoResponse mirrors model.ConfigEstado for API consumers.
type EstadoResponse struct {
	ID              int    `json:"id"`
	Etiqueta        string `json:"etiqueta"`
	EtiquetaPublica string `json:"etiqueta_publica"`
	Color           string `json:"color"`
	Icono           string `json:"icono"`
	Accion          string `json:"accion,omitempty"`
	Terminal        bool   `json:"terminal"`
}

type PedidoResponse struct {
	ID               string               `json:"id"`
	Numero           string               `json:"numero"` // ORD-00050
	Origen           string               `json:"origen"`
	Estado           EstadoResponse       `json:"estado"`
	ContactoNombre   string               `json:"contacto_nombre"`
	ContactoTelefono string               `json:"contacto_telefono"`
	EsDomicilio      bool                 `json:"es_domicilio"`
	Calle            *string              `json:"calle,omitempty"`
	NumeroExterior   *string              `json:"numero_exterior,omitempty"`
	Colonia          *string              `json:"colonia,omitempty"`
	Items            []ItemPedidoResponse `json:"items"`
	Total            decimal.Decimal      `json:"total"`
	ExpiraEn         *string              `json:"expira_en,omitempty"`
	CreatedAt        string               `json:"created_at"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// RestanteResponse is the countdown payload shown on tracking cards.
type RestanteResponse struct {
	Horas    int  `json:"horas"`
	Minutos  int  `json:"minutos"`
	Segundos int  `json:"segundos"`
	Expirado bool `json:"expirado"`
}

// TrackingResponse is the public order-tracking payload: only the customer-
// facing subset, no staff data.
type TrackingResponse struct {
	Numero    string               `json:"numero"`
	Estado    EstadoResponse       `json:"estado"`
	Items     []ItemPedidoResponse `json:"items"`
	Total     decimal.Decimal      `json:"total"`
	Restante  *RestanteResponse    `json:"restante,omitempty"`
	CreatedAt string               `json:"created_at"`
}
