package dto

import (
	"encoding/json"

	"tiendapos/internal/pricing"

	"github.com/shopspring/decimal"
)

// LineaExterna is a cart line as foreign systems send it. Upstream casing is
// inconsistent across endpoints (camelCase vs PascalCase) and discounts
// arrive either nested or flattened; this type is the single normalization
// boundary — everything past UnmarshalJSON sees one shape.
//
// Accepted keys per field:
//
//	id           → id | Id | ID | productId | ProductId
//	price        → price | Price
//	quantity     → quantity | Quantity | cantidad
//	stock        → stock | Stock
//	discount     → discount | Discount → {percentage|Percentage, minQuantity|MinQuantity}
//	               or flat discountPercentage + minQuantity
type LineaExterna struct {
	ProductoID string
	Precio     decimal.Decimal
	Cantidad   int
	Stock      int
	Regla      *pricing.Regla
}

// pick returns the first present key, tolerating both casings.
func pick(raw map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

// asDecimal coerces a JSON value (number or numeric string) to a decimal.
// Anything unparseable becomes zero — invalid numeric inputs never abort the
// whole cart.
func asDecimal(v json.RawMessage) decimal.Decimal {
	var d decimal.Decimal
	if err := json.Unmarshal(v, &d); err == nil {
		return d
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func asInt(v json.RawMessage) int {
	return int(asDecimal(v).IntPart())
}

func asString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}

func (l *LineaExterna) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if v, ok := pick(raw, "id", "Id", "ID", "productId", "ProductId"); ok {
		l.ProductoID = asString(v)
	}
	if v, ok := pick(raw, "price", "Price", "precio"); ok {
		l.Precio = asDecimal(v)
	}
	if v, ok := pick(raw, "quantity", "Quantity", "cantidad"); ok {
		l.Cantidad = asInt(v)
	}
	if v, ok := pick(raw, "stock", "Stock"); ok {
		l.Stock = asInt(v)
	}

	// Nested discount object wins over the flattened form.
	if v, ok := pick(raw, "discount", "Discount", "descuento"); ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(v, &nested); err == nil {
			regla := pricing.Regla{CantidadMinima: 1}
			if p, ok := pick(nested, "percentage", "Percentage", "porcentaje"); ok {
				regla.Porcentaje = asDecimal(p)
			}
			if m, ok := pick(nested, "minQuantity", "MinQuantity", "cantidadMinima"); ok {
				regla.CantidadMinima = asInt(m)
			}
			l.Regla = &regla
		}
	} else if v, ok := pick(raw, "discountPercentage", "DiscountPercentage"); ok {
		regla := pricing.Regla{Porcentaje: asDecimal(v), CantidadMinima: 1}
		if m, ok := pick(raw, "minQuantity", "MinQuantity"); ok {
			regla.CantidadMinima = asInt(m)
		}
		l.Regla = &regla
	}

	return nil
}

// Linea converts the normalized payload into a pricing input.
func (l *LineaExterna) Linea() pricing.Linea {
	return pricing.Linea{PrecioLista: l.Precio, Cantidad: l.Cantidad, Regla: l.Regla}
}

// ─── Cotización (cart quote) ─────────────────────────────────────────────────

// CotizarRequest quotes a raw cart. UmbralCercania overrides the default
// near-discount threshold per call site (some screens nudge earlier).
type CotizarRequest struct {
	Lineas         []LineaExterna `json:"lineas" validate:"required,min=1"`
	UmbralCercania *int           `json:"umbral_cercania" validate:"omitempty,min=1"`
	// ConIVA: POS quotes include the 16% overlay; storefront carts don't.
	ConIVA bool `json:"con_iva"`
}

type LineaCotizada struct {
	ProductoID       string          `json:"producto_id"`
	Cantidad         int             `json:"cantidad"`
	PrecioOriginal   decimal.Decimal `json:"precio_original"`
	PrecioFinal      decimal.Decimal `json:"precio_final"`
	TotalLinea       decimal.Decimal `json:"total_linea"`
	Ahorro           decimal.Decimal `json:"ahorro"`
	DescuentoActivo  bool            `json:"descuento_activo"`
	EsMayorista      bool            `json:"es_mayorista"`
	CercaDeDescuento bool            `json:"cerca_de_descuento"`
}

type CotizacionResponse struct {
	Lineas      []LineaCotizada `json:"lineas"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	AhorroTotal decimal.Decimal `json:"ahorro_total"`
	Unidades    int             `json:"unidades"`
	IVA         decimal.Decimal `json:"iva"`
	Total       decimal.Decimal `json:"total"`
}
