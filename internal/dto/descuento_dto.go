package dto

import "github.com/shopspring/decimal"

type CrearDescuentoRequest struct {
	Nombre     string          `json:"nombre"     validate:"required"`
	Porcentaje decimal.Decimal `json:"porcentaje" validate:"required,min=0,max=100"`
	// CantidadMinima 1 = oferta directa; > 1 = regla mayorista.
	CantidadMinima int `json:"cantidad_minima" validate:"omitempty,min=1"`
}

type ActualizarDescuentoRequest struct {
	Nombre         string           `json:"nombre"`
	Porcentaje     *decimal.Decimal `json:"porcentaje"      validate:"omitempty,min=0,max=100"`
	CantidadMinima *int             `json:"cantidad_minima" validate:"omitempty,min=1"`
}

type DescuentoResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	Porcentaje     decimal.Decimal `json:"porcentaje"`
	CantidadMinima int             `json:"cantidad_minima"`
	// EsMayorista is derived from CantidadMinima, never stored.
	EsMayorista bool `json:"es_mayorista"`
	Activo      bool `json:"activo"`
}
