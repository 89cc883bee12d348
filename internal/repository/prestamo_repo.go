package repository

import (
	"context"
	"errors"

	"biblioteca/internal/dto"
	"biblioteca/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrestamoRepository is the loan ledger. Open loans are rows where
// fecha_devolucion_real IS NULL.
type PrestamoRepository interface {
	List(ctx context.Context, filter dto.PrestamoFilter) ([]model.Prestamo, error)

	// Referential guards used by catalog/directory deletes.
	ExisteAbiertoPorLibro(ctx context.Context, isbn string) (bool, error)
	ExisteAbiertoPorUsuario(ctx context.Context, email string) (bool, error)

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Prestamo) error
	FindAbiertoPorUsuarioTx(tx *gorm.DB, email string) (*model.Prestamo, error)
	FindAbiertoTx(tx *gorm.DB, email, isbn string) (*model.Prestamo, error)
	UpdateTx(tx *gorm.DB, p *model.Prestamo) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type prestamoRepo struct{ db *gorm.DB }

func NewPrestamoRepository(db *gorm.DB) PrestamoRepository { return &prestamoRepo{db: db} }

func (r *prestamoRepo) DB() *gorm.DB { return r.db }

func (r *prestamoRepo) List(ctx context.Context, filter dto.PrestamoFilter) ([]model.Prestamo, error) {
	q := r.db.WithContext(ctx).Model(&model.Prestamo{})
	if filter.IDUsuario != "" {
		q = q.Where("id_usuario = ?", model.NormalizarEmail(filter.IDUsuario))
	}
	if filter.IDLibro != "" {
		q = q.Where("id_libro = ?", model.NormalizarISBN(filter.IDLibro))
	}
	switch filter.Estado {
	case dto.EstadoPrestados:
		q = q.Where("fecha_devolucion_real IS NULL")
	case dto.EstadoDevueltos:
		q = q.Where("fecha_devolucion_real IS NOT NULL")
	}
	var prestamos []model.Prestamo
	err := q.Order("fecha_prestamo DESC").Find(&prestamos).Error
	return prestamos, err
}

func (r *prestamoRepo) ExisteAbiertoPorLibro(ctx context.Context, isbn string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Prestamo{}).
		Where("id_libro = ? AND fecha_devolucion_real IS NULL", model.NormalizarISBN(isbn)).
		Count(&count).Error
	return count > 0, err
}

func (r *prestamoRepo) ExisteAbiertoPorUsuario(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Prestamo{}).
		Where("id_usuario = ? AND fecha_devolucion_real IS NULL", model.NormalizarEmail(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *prestamoRepo) CreateTx(tx *gorm.DB, p *model.Prestamo) error {
	return tx.Create(p).Error
}

// FindAbiertoPorUsuarioTx returns the user's open loan, or (nil, nil) when
// the user holds none.
func (r *prestamoRepo) FindAbiertoPorUsuarioTx(tx *gorm.DB, email string) (*model.Prestamo, error) {
	var p model.Prestamo
	err := tx.Where("id_usuario = ? AND fecha_devolucion_real IS NULL", model.NormalizarEmail(email)).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *prestamoRepo) FindAbiertoTx(tx *gorm.DB, email, isbn string) (*model.Prestamo, error) {
	var p model.Prestamo
	err := tx.Where("id_usuario = ? AND id_libro = ? AND fecha_devolucion_real IS NULL",
		model.NormalizarEmail(email), model.NormalizarISBN(isbn)).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *prestamoRepo) UpdateTx(tx *gorm.DB, p *model.Prestamo) error {
	return tx.Save(p).Error
}

func (r *prestamoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Prestamo{}, "id = ?", id).Error
}
