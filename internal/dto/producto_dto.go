package dto

import "github.com/shopspring/decimal"

// ProductoFilter is bound from the query string of GET /v1/productos.
type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id"`
	// Activo: "false" = inactivos, "all" = todos, default = activos
	Activo string `form:"activo"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"       validate:"required,min=0"`
	Stock       int             `json:"stock"        validate:"min=0"`
	CategoriaID *string         `json:"categoria_id" validate:"omitempty,uuid"`
	DescuentoID *string         `json:"descuento_id" validate:"omitempty,uuid"`
	ImagenURL   *string         `json:"imagen_url"   validate:"omitempty,url"`
}

type ActualizarProductoRequest struct {
	Nombre      string           `json:"nombre"`
	Descripcion *string          `json:"descripcion"`
	Precio      *decimal.Decimal `json:"precio"       validate:"omitempty,min=0"`
	Stock       *int             `json:"stock"        validate:"omitempty,min=0"`
	CategoriaID *string          `json:"categoria_id" validate:"omitempty,uuid"`
	DescuentoID *string          `json:"descuento_id" validate:"omitempty,uuid"`
	ImagenURL   *string          `json:"imagen_url"   validate:"omitempty,url"`
}

type ProductoResponse struct {
	ID          string             `json:"id"`
	Nombre      string             `json:"nombre"`
	Descripcion *string            `json:"descripcion,omitempty"`
	Precio      decimal.Decimal    `json:"precio"`
	Stock       int                `json:"stock"`
	CategoriaID *string            `json:"categoria_id,omitempty"`
	Categoria   *string            `json:"categoria,omitempty"`
	Descuento   *DescuentoResponse `json:"descuento,omitempty"`
	ImagenURL   *string            `json:"imagen_url,omitempty"`
	Activo      bool               `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
