package repository

import (
	"context"

	"biblioteca/internal/dto"
	"biblioteca/internal/model"

	"gorm.io/gorm"
)

// LibroRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type LibroRepository interface {
	Create(ctx context.Context, l *model.Libro) error
	FindByISBN(ctx context.Context, isbn string) (*model.Libro, error)
	FindOne(ctx context.Context, filter dto.BuscarLibroFilter) (*model.Libro, error)
	List(ctx context.Context) ([]model.Libro, error)
	Update(ctx context.Context, l *model.Libro) error
	Delete(ctx context.Context, isbn string) error

	// Used inside transactions — callers must pass the tx instance
	FindByISBNTx(tx *gorm.DB, isbn string) (*model.Libro, error)

	// DecrementarStockTx atomically takes one copy while the stock stays
	// above floor. Returns false without error when the guard fails, which
	// the caller must surface as a stock conflict.
	DecrementarStockTx(tx *gorm.DB, isbn string, floor int) (bool, error)

	// IncrementarStockTx returns one copy to circulation.
	IncrementarStockTx(tx *gorm.DB, isbn string) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type libroRepo struct{ db *gorm.DB }

func NewLibroRepository(db *gorm.DB) LibroRepository { return &libroRepo{db: db} }

func (r *libroRepo) DB() *gorm.DB { return r.db }

func (r *libroRepo) Create(ctx context.Context, l *model.Libro) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *libroRepo) FindByISBN(ctx context.Context, isbn string) (*model.Libro, error) {
	var l model.Libro
	err := r.db.WithContext(ctx).Where("isbn = ?", model.NormalizarISBN(isbn)).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *libroRepo) FindOne(ctx context.Context, filter dto.BuscarLibroFilter) (*model.Libro, error) {
	q := r.db.WithContext(ctx).Model(&model.Libro{})
	switch {
	case filter.ISBN != "":
		q = q.Where("isbn = ?", model.NormalizarISBN(filter.ISBN))
	case filter.Titulo != "":
		q = q.Where("titulo ILIKE ?", "%"+filter.Titulo+"%")
	case filter.Autor != "":
		q = q.Where("autor ILIKE ?", "%"+filter.Autor+"%")
	}
	var l model.Libro
	if err := q.First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *libroRepo) List(ctx context.Context) ([]model.Libro, error) {
	var libros []model.Libro
	err := r.db.WithContext(ctx).Order("titulo ASC").Find(&libros).Error
	return libros, err
}

func (r *libroRepo) Update(ctx context.Context, l *model.Libro) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *libroRepo) Delete(ctx context.Context, isbn string) error {
	return r.db.WithContext(ctx).Where("isbn = ?", model.NormalizarISBN(isbn)).Delete(&model.Libro{}).Error
}

func (r *libroRepo) FindByISBNTx(tx *gorm.DB, isbn string) (*model.Libro, error) {
	var l model.Libro
	err := tx.Where("isbn = ?", model.NormalizarISBN(isbn)).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *libroRepo) DecrementarStockTx(tx *gorm.DB, isbn string, floor int) (bool, error) {
	res := tx.Model(&model.Libro{}).
		Where("isbn = ? AND stock > ?", model.NormalizarISBN(isbn), floor).
		Update("stock", gorm.Expr("stock - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *libroRepo) IncrementarStockTx(tx *gorm.DB, isbn string) error {
	return tx.Model(&model.Libro{}).
		Where("isbn = ?", model.NormalizarISBN(isbn)).
		Update("stock", gorm.Expr("stock + 1")).Error
}
