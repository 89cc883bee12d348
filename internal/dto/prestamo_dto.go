package dto

// ─── Estado filter ───────────────────────────────────────────────────────────

const (
	EstadoTodos     = "todos"
	EstadoPrestados = "prestados"
	EstadoDevueltos = "devueltos"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearPrestamoRequest struct {
	IDUsuario string `json:"idUsuario" validate:"required,email"`
	IDLibro   string `json:"idLibro"   validate:"required,min=13"`
	// DiasPrestamo: plazo solicitado, máximo 15 días.
	DiasPrestamo int `json:"diasPrestamo" validate:"required,min=1,max=15"`
}

type DevolverPrestamoRequest struct {
	IDUsuario string `json:"idUsuario" validate:"required,email"`
	IDLibro   string `json:"idLibro"   validate:"required,min=13"`
	// FechaDevolucionReal en formato DD-MM-YYYY.
	FechaDevolucionReal string `json:"fechaDevolucionReal" validate:"required"`
}

// PrestamoFilter is bound from the query string of GET /v1/prestamos.
type PrestamoFilter struct {
	IDUsuario string `form:"idUsuario" validate:"omitempty,email"`
	IDLibro   string `form:"idLibro"   validate:"omitempty,min=13"`
	Estado    string `form:"estado,default=todos" validate:"omitempty,oneof=todos prestados devueltos"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// UsuarioSnapshot and LibroSnapshot carry the joined state presented with
// every loan: current for queries, in-transaction for mutations.
type UsuarioSnapshot struct {
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}

type LibroSnapshot struct {
	Titulo string `json:"titulo"`
	Autor  string `json:"autor"`
	Stock  int    `json:"stock"`
}

type PrestamoResponse struct {
	IDUsuario           string          `json:"idUsuario"`
	IDLibro             string          `json:"idLibro"`
	FechaPrestamo       string          `json:"fechaPrestamo"`                 // DD-MM-YYYY
	FechaDevolucion     string          `json:"fechaDevolucion"`               // DD-MM-YYYY
	FechaDevolucionReal *string         `json:"fechaDevolucionReal,omitempty"` // DD-MM-YYYY
	Usuario             UsuarioSnapshot `json:"usuario"`
	Libro               LibroSnapshot   `json:"libro"`
}
