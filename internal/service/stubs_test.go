package service_test

import (
	"context"
	"strings"
	"time"

	"biblioteca/internal/dates"
	"biblioteca/internal/dto"
	"biblioteca/internal/model"
	"biblioteca/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func decimalDe(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// In-memory repository stubs. Services open no real transaction when
// DB() returns nil, so the Tx methods here ignore the *gorm.DB argument.
// Read methods return copies, as a database read would.

// ── stubLibroRepo ────────────────────────────────────────────────────────────

type stubLibroRepo struct {
	libros map[string]*model.Libro
}

func newStubLibroRepo() *stubLibroRepo {
	return &stubLibroRepo{libros: make(map[string]*model.Libro)}
}

func (r *stubLibroRepo) Create(_ context.Context, l *model.Libro) error {
	l.ISBN = model.NormalizarISBN(l.ISBN)
	cp := *l
	r.libros[cp.ISBN] = &cp
	return nil
}

func (r *stubLibroRepo) FindByISBN(_ context.Context, isbn string) (*model.Libro, error) {
	l, ok := r.libros[model.NormalizarISBN(isbn)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *stubLibroRepo) FindOne(_ context.Context, filter dto.BuscarLibroFilter) (*model.Libro, error) {
	contiene := func(campo, valor string) bool {
		return strings.Contains(strings.ToLower(campo), strings.ToLower(valor))
	}
	for _, l := range r.libros {
		switch {
		case filter.ISBN != "":
			if l.ISBN == model.NormalizarISBN(filter.ISBN) {
				cp := *l
				return &cp, nil
			}
		case filter.Titulo != "":
			if contiene(l.Titulo, filter.Titulo) {
				cp := *l
				return &cp, nil
			}
		case filter.Autor != "":
			if contiene(l.Autor, filter.Autor) {
				cp := *l
				return &cp, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLibroRepo) List(_ context.Context) ([]model.Libro, error) {
	out := make([]model.Libro, 0, len(r.libros))
	for _, l := range r.libros {
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubLibroRepo) Update(_ context.Context, l *model.Libro) error {
	cp := *l
	r.libros[cp.ISBN] = &cp
	return nil
}

func (r *stubLibroRepo) Delete(_ context.Context, isbn string) error {
	delete(r.libros, model.NormalizarISBN(isbn))
	return nil
}

func (r *stubLibroRepo) FindByISBNTx(_ *gorm.DB, isbn string) (*model.Libro, error) {
	return r.FindByISBN(context.Background(), isbn)
}

func (r *stubLibroRepo) DecrementarStockTx(_ *gorm.DB, isbn string, floor int) (bool, error) {
	l, ok := r.libros[model.NormalizarISBN(isbn)]
	if !ok || l.Stock <= floor {
		return false, nil
	}
	l.Stock--
	return true, nil
}

func (r *stubLibroRepo) IncrementarStockTx(_ *gorm.DB, isbn string) error {
	if l, ok := r.libros[model.NormalizarISBN(isbn)]; ok {
		l.Stock++
	}
	return nil
}

func (r *stubLibroRepo) DB() *gorm.DB { return nil }

var _ repository.LibroRepository = (*stubLibroRepo)(nil)

// ── stubUsuarioRepo ──────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	u.Email = model.NormalizarEmail(u.Email)
	cp := *u
	r.usuarios[cp.Email] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	u, ok := r.usuarios[model.NormalizarEmail(email)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	r.usuarios[cp.Email] = &cp
	return nil
}

func (r *stubUsuarioRepo) Delete(_ context.Context, email string) error {
	delete(r.usuarios, model.NormalizarEmail(email))
	return nil
}

func (r *stubUsuarioRepo) FindByEmailTx(_ *gorm.DB, email string) (*model.Usuario, error) {
	return r.FindByEmail(context.Background(), email)
}

func (r *stubUsuarioRepo) SetActivoTx(_ *gorm.DB, email string, activo bool) error {
	if u, ok := r.usuarios[model.NormalizarEmail(email)]; ok {
		u.Activo = activo
	}
	return nil
}

func (r *stubUsuarioRepo) DB() *gorm.DB { return nil }

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── stubPrestamoRepo ─────────────────────────────────────────────────────────

type stubPrestamoRepo struct {
	prestamos map[uuid.UUID]*model.Prestamo
}

func newStubPrestamoRepo() *stubPrestamoRepo {
	return &stubPrestamoRepo{prestamos: make(map[uuid.UUID]*model.Prestamo)}
}

func (r *stubPrestamoRepo) List(_ context.Context, filter dto.PrestamoFilter) ([]model.Prestamo, error) {
	out := make([]model.Prestamo, 0, len(r.prestamos))
	for _, p := range r.prestamos {
		if filter.IDUsuario != "" && p.IDUsuario != model.NormalizarEmail(filter.IDUsuario) {
			continue
		}
		if filter.IDLibro != "" && p.IDLibro != model.NormalizarISBN(filter.IDLibro) {
			continue
		}
		switch filter.Estado {
		case dto.EstadoPrestados:
			if !p.Abierto() {
				continue
			}
		case dto.EstadoDevueltos:
			if p.Abierto() {
				continue
			}
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPrestamoRepo) ExisteAbiertoPorLibro(_ context.Context, isbn string) (bool, error) {
	for _, p := range r.prestamos {
		if p.IDLibro == model.NormalizarISBN(isbn) && p.Abierto() {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPrestamoRepo) ExisteAbiertoPorUsuario(_ context.Context, email string) (bool, error) {
	for _, p := range r.prestamos {
		if p.IDUsuario == model.NormalizarEmail(email) && p.Abierto() {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPrestamoRepo) CreateTx(_ *gorm.DB, p *model.Prestamo) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.prestamos[cp.ID] = &cp
	return nil
}

func (r *stubPrestamoRepo) FindAbiertoPorUsuarioTx(_ *gorm.DB, email string) (*model.Prestamo, error) {
	for _, p := range r.prestamos {
		if p.IDUsuario == model.NormalizarEmail(email) && p.Abierto() {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubPrestamoRepo) FindAbiertoTx(_ *gorm.DB, email, isbn string) (*model.Prestamo, error) {
	for _, p := range r.prestamos {
		if p.IDUsuario == model.NormalizarEmail(email) &&
			p.IDLibro == model.NormalizarISBN(isbn) && p.Abierto() {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubPrestamoRepo) UpdateTx(_ *gorm.DB, p *model.Prestamo) error {
	cp := *p
	r.prestamos[cp.ID] = &cp
	return nil
}

func (r *stubPrestamoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.prestamos, id)
	return nil
}

func (r *stubPrestamoRepo) DB() *gorm.DB { return nil }

var _ repository.PrestamoRepository = (*stubPrestamoRepo)(nil)

// ── stubVentaRepo ────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas []model.Venta
}

func newStubVentaRepo() *stubVentaRepo { return &stubVentaRepo{} }

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas = append(r.ventas, *v)
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, idUsuario, idLibro string, desde, hasta time.Time) ([]model.Venta, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		if v.FechaVenta.Before(desde) || v.FechaVenta.After(hasta) {
			continue
		}
		if idUsuario != "" && v.IDUsuario != model.NormalizarEmail(idUsuario) {
			continue
		}
		if idLibro != "" && v.IDLibro != model.NormalizarISBN(idLibro) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── helpers ──────────────────────────────────────────────────────────────────

// utcLocales pins tests to UTC so they do not depend on the host tzdata.
func utcLocales() *dates.Locales {
	l, err := dates.NewLocales("UTC")
	if err != nil {
		panic(err)
	}
	return l
}

func seedLibro(repo *stubLibroRepo, isbn, titulo string, stock int, precio string) *model.Libro {
	l := &model.Libro{
		ISBN:   isbn,
		Titulo: titulo,
		Autor:  "Autor de Prueba",
		Stock:  stock,
		Precio: decimalDe(precio),
	}
	_ = repo.Create(context.Background(), l)
	return l
}

func seedUsuario(repo *stubUsuarioRepo, email string, activo bool) *model.Usuario {
	u := &model.Usuario{
		Email:     email,
		Nombre:    "María",
		Apellido1: "López",
		Activo:    activo,
	}
	_ = repo.Create(context.Background(), u)
	return u
}
