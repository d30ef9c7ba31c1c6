package dto

// Proveedores y clientes: referenced-not-owned parties. A dangling reference
// on a lot or sale renders as "[eliminado]".

type CrearProveedorRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required"`
	NIT         string  `json:"nit"          validate:"required"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Direccion   *string `json:"direccion"`
}

type ProveedorResponse struct {
	ID          string  `json:"id"`
	RazonSocial string  `json:"razon_social"`
	NIT         string  `json:"nit"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"`
	Direccion   *string `json:"direccion"`
	Activo      bool    `json:"activo"`
}

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre" validate:"required"`
	NIT       string  `json:"nit"    validate:"required"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
}

type ClienteResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	NIT       string  `json:"nit"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
	Activo    bool    `json:"activo"`
}
