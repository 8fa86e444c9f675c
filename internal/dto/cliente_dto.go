package dto

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre"   validate:"required"`
	Telefono  string  `json:"telefono" validate:"required,min=8"`
	Email     *string `json:"email"    validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

type ActualizarClienteRequest struct {
	Nombre    string  `json:"nombre"`
	Telefono  string  `json:"telefono" validate:"omitempty,min=8"`
	Email     *string `json:"email"    validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

type ClienteResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Telefono  string  `json:"telefono"`
	Email     *string `json:"email,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
	Activo    bool    `json:"activo"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
