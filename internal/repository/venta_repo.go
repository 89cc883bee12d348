package repository

import (
	"context"
	"time"

	"biblioteca/internal/model"

	"gorm.io/gorm"
)

// VentaRepository is the append-only sales ledger: rows are created inside a
// sale transaction and never updated or deleted.
type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	List(ctx context.Context, idUsuario, idLibro string, desde, hasta time.Time) ([]model.Venta, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) List(ctx context.Context, idUsuario, idLibro string, desde, hasta time.Time) ([]model.Venta, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("fecha_venta >= ? AND fecha_venta <= ?", desde, hasta)
	if idUsuario != "" {
		q = q.Where("id_usuario = ?", model.NormalizarEmail(idUsuario))
	}
	if idLibro != "" {
		q = q.Where("id_libro = ?", model.NormalizarISBN(idLibro))
	}
	var ventas []model.Venta
	err := q.Order("fecha_venta DESC").Find(&ventas).Error
	return ventas, err
}
