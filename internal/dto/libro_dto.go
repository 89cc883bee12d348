package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearLibroRequest struct {
	ISBN   string          `json:"isbn"   validate:"required,min=13"`
	Titulo string          `json:"titulo" validate:"required"`
	Autor  string          `json:"autor"  validate:"required"`
	// Stock inicial: entre 1 y 10 ejemplares por título.
	Stock            int             `json:"stock"  validate:"required,min=1,max=10"`
	Precio           decimal.Decimal `json:"precio" validate:"required,gt=0"`
	Genero           *string         `json:"genero"           validate:"omitempty"`
	FechaPublicacion *string         `json:"fechaPublicacion" validate:"omitempty"` // DD-MM-YYYY
	Resumen          *string         `json:"resumen"          validate:"omitempty"`
}

// ActualizarLibroRequest updates catalog metadata only. Stock is owned by the
// ledger path and cannot be patched here.
type ActualizarLibroRequest struct {
	Titulo           *string          `json:"titulo"           validate:"omitempty"`
	Autor            *string          `json:"autor"            validate:"omitempty"`
	Precio           *decimal.Decimal `json:"precio"           validate:"omitempty,gt=0"`
	Genero           *string          `json:"genero"           validate:"omitempty"`
	FechaPublicacion *string          `json:"fechaPublicacion" validate:"omitempty"`
	Resumen          *string          `json:"resumen"          validate:"omitempty"`
}

// BuscarLibroFilter is bound from the query string of GET /v1/libros/buscar.
// Exactly one criterion must be present; titulo and autor match partially,
// case-insensitive.
type BuscarLibroFilter struct {
	ISBN   string `form:"isbn"`
	Titulo string `form:"titulo"`
	Autor  string `form:"autor"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LibroResponse struct {
	ISBN             string          `json:"isbn"`
	Titulo           string          `json:"titulo"`
	Autor            string          `json:"autor"`
	Stock            int             `json:"stock"`
	Precio           decimal.Decimal `json:"precio"`
	Genero           *string         `json:"genero,omitempty"`
	FechaPublicacion *string         `json:"fechaPublicacion,omitempty"` // DD-MM-YYYY
	Resumen          *string         `json:"resumen,omitempty"`
}

// ConsultaPrecioResponse is the cached payload of GET /v1/precio/{isbn}.
type ConsultaPrecioResponse struct {
	Titulo          string          `json:"titulo"`
	Autor           string          `json:"autor"`
	Precio          decimal.Decimal `json:"precio"`
	StockDisponible int             `json:"stockDisponible"`
}
