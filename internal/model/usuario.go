package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Usuario is a registered reader. Email is the natural key.
// Activo=false means the user is sanctioned (late return) or deactivated by
// an administrator; inactive users cannot open loans or purchases.
type Usuario struct {
	Email     string  `gorm:"primaryKey"`
	Nombre    string  `gorm:"not null"`
	Apellido1 string  `gorm:"not null"`
	Apellido2 *string `gorm:""`
	Activo    bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Usuario) TableName() string { return "usuarios" }

// NombreCompleto concatenates the name fields for display and for the
// write-time snapshot stored on each venta.
func (u *Usuario) NombreCompleto() string {
	nombre := u.Nombre + " " + u.Apellido1
	if u.Apellido2 != nil && *u.Apellido2 != "" {
		nombre += " " + *u.Apellido2
	}
	return nombre
}

func NormalizarEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *Usuario) BeforeSave(_ *gorm.DB) error {
	u.Email = NormalizarEmail(u.Email)
	u.Nombre = strings.TrimSpace(u.Nombre)
	u.Apellido1 = strings.TrimSpace(u.Apellido1)
	return nil
}
