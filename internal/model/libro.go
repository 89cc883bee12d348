package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Libro is a catalog entry. ISBN is the natural key — normalized to
// lowercase/trimmed before any read or write.
// Stock is owned by the ledger services (prestamos/ventas); catalog updates
// never touch it once the book exists.
type Libro struct {
	ISBN             string          `gorm:"primaryKey;column:isbn"`
	Titulo           string          `gorm:"not null"`
	Autor            string          `gorm:"not null"`
	Genero           *string         `gorm:""`
	FechaPublicacion *time.Time      `gorm:"column:fecha_publicacion"`
	Resumen          *string         `gorm:""`
	Stock            int             `gorm:"not null;default:0"`
	Precio           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Libro) TableName() string { return "libros" }

// NormalizarISBN applies the canonical key normalization.
func NormalizarISBN(isbn string) string {
	return strings.ToLower(strings.TrimSpace(isbn))
}

// BeforeSave keeps the stored key canonical even when callers forget to
// normalize.
func (l *Libro) BeforeSave(_ *gorm.DB) error {
	l.ISBN = NormalizarISBN(l.ISBN)
	l.Titulo = strings.TrimSpace(l.Titulo)
	l.Autor = strings.TrimSpace(l.Autor)
	return nil
}
