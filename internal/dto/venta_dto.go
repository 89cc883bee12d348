package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarVentaRequest struct {
	IDUsuario string `json:"idUsuario" validate:"required,email"`
	IDLibro   string `json:"idLibro"   validate:"required,min=13"`
	// FechaVenta en formato DD-MM-YYYY; si se omite se usa el día actual.
	FechaVenta *string `json:"fechaVenta" validate:"omitempty"`
	// Descuento porcentual entero 0..100; 0 cuando se omite.
	Descuento *int `json:"descuento" validate:"omitempty,min=0,max=100"`
}

// VentaFilter is bound from the query string of GET /v1/ventas.
// The date range is inclusive; missing bounds default to 01-01-1900 and now.
type VentaFilter struct {
	IDUsuario   string `form:"idUsuario"   validate:"omitempty,email"`
	IDLibro     string `form:"idLibro"     validate:"omitempty,min=13"`
	FechaInicio string `form:"fechaInicio" validate:"omitempty"` // DD-MM-YYYY
	FechaFin    string `form:"fechaFin"    validate:"omitempty"` // DD-MM-YYYY
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaResponse struct {
	ID            string          `json:"id"`
	IDUsuario     string          `json:"idUsuario"`
	IDLibro       string          `json:"idLibro"`
	FechaVenta    string          `json:"fechaVenta"` // DD-MM-YYYY
	Precio        decimal.Decimal `json:"precio"`
	Descuento     int             `json:"descuento"`
	Info          string          `json:"info"`
	NombreUsuario string          `json:"nombreUsuario"`
	TituloLibro   string          `json:"tituloLibro"`
}
