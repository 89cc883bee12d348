package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is an append-only sale record. NombreUsuario and TituloLibro are a
// write-time join: they capture the user name and book title as of the sale,
// and are never refreshed if the referenced records change later.
type Venta struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDUsuario     string          `gorm:"column:id_usuario;index;not null"`
	IDLibro       string          `gorm:"column:id_libro;index;not null"`
	FechaVenta    time.Time       `gorm:"index;not null"`
	Precio        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Descuento     int             `gorm:"not null;default:0"`
	Info          string          `gorm:"not null"`
	NombreUsuario string          `gorm:"not null"`
	TituloLibro   string          `gorm:"not null"`
	CreatedAt     time.Time
}

func (Venta) TableName() string { return "ventas" }
