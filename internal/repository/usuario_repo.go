package repository

import (
	"context"

	"biblioteca/internal/model"

	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	List(ctx context.Context) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	Delete(ctx context.Context, email string) error

	// Used inside transactions — callers must pass the tx instance
	FindByEmailTx(tx *gorm.DB, email string) (*model.Usuario, error)
	SetActivoTx(tx *gorm.DB, email string, activo bool) error

	DB() *gorm.DB
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) DB() *gorm.DB { return r.db }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("email = ?", model.NormalizarEmail(email)).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	var usuarios []model.Usuario
	err := r.db.WithContext(ctx).Order("email ASC").Find(&usuarios).Error
	return usuarios, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepo) Delete(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", model.NormalizarEmail(email)).Delete(&model.Usuario{}).Error
}

func (r *usuarioRepo) FindByEmailTx(tx *gorm.DB, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := tx.Where("email = ?", model.NormalizarEmail(email)).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) SetActivoTx(tx *gorm.DB, email string, activo bool) error {
	return tx.Model(&model.Usuario{}).
		Where("email = ?", model.NormalizarEmail(email)).
		Update("activo", activo).Error
}
