package model

import (
	"time"

	"github.com/google/uuid"
)

// Prestamo records a book lent to a user. The loan is open while
// FechaDevolucionReal is null; returning or removing it restores stock.
//
// The composite unique index on (id_usuario, id_libro) is a safety net
// against duplicate loan records racing past the application-level
// "one active loan per user" check.
type Prestamo struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDUsuario           string     `gorm:"column:id_usuario;uniqueIndex:idx_prestamo_usuario_libro;index;not null"`
	IDLibro             string     `gorm:"column:id_libro;uniqueIndex:idx_prestamo_usuario_libro;index;not null"`
	FechaPrestamo       time.Time  `gorm:"not null"`
	FechaDevolucion     time.Time  `gorm:"not null"`
	FechaDevolucionReal *time.Time `gorm:""`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (Prestamo) TableName() string { return "prestamos" }

// Abierto reports whether the book is still out.
func (p *Prestamo) Abierto() bool { return p.FechaDevolucionReal == nil }

// Retrasado reports whether a return on fecha is late. Returning exactly on
// the due date is on time; only a strictly later date sanctions the user.
func (p *Prestamo) Retrasado(fecha time.Time) bool {
	return fecha.After(p.FechaDevolucion)
}
