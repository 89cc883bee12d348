package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearUsuarioRequest struct {
	Email     string  `json:"email"     validate:"required,email"`
	Nombre    string  `json:"nombre"    validate:"required"`
	Apellido1 string  `json:"apellido1" validate:"required"`
	Apellido2 *string `json:"apellido2" validate:"omitempty"`
	// Activo defaults to true when omitted.
	Activo *bool `json:"activo" validate:"omitempty"`
}

type ActualizarUsuarioRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty"`
	Apellido1 *string `json:"apellido1" validate:"omitempty"`
	Apellido2 *string `json:"apellido2" validate:"omitempty"`
	Activo    *bool   `json:"activo"    validate:"omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	Email          string  `json:"email"`
	Nombre         string  `json:"nombre"`
	Apellido1      string  `json:"apellido1"`
	Apellido2      *string `json:"apellido2,omitempty"`
	Activo         bool    `json:"activo"`
	NombreCompleto string  `json:"nombreCompleto"`
}
