package service

import (
	"context"
	"errors"
	"fmt"

	"biblioteca/internal/apierror"
	"biblioteca/internal/dates"
	"biblioteca/internal/dto"
	"biblioteca/internal/model"
	"biblioteca/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// LibroService handles catalog CRUD. The stock counter is read here but only
// mutated by the ledger services; the update path deliberately has no stock
// field.
type LibroService interface {
	Crear(ctx context.Context, req dto.CrearLibroRequest) (*dto.LibroResponse, error)
	Buscar(ctx context.Context, filter dto.BuscarLibroFilter) (*dto.LibroResponse, error)
	Listar(ctx context.Context) ([]dto.LibroResponse, error)
	Actualizar(ctx context.Context, isbn string, req dto.ActualizarLibroRequest) (*dto.LibroResponse, error)
	Eliminar(ctx context.Context, isbn string) (*dto.LibroResponse, error)
}

type libroService struct {
	repo         repository.LibroRepository
	prestamoRepo repository.PrestamoRepository
	rdb          *redis.Client
	locales      *dates.Locales
}

func NewLibroService(
	repo repository.LibroRepository,
	prestamoRepo repository.PrestamoRepository,
	rdb *redis.Client,
	locales *dates.Locales,
) LibroService {
	return &libroService{repo: repo, prestamoRepo: prestamoRepo, rdb: rdb, locales: locales}
}

func (s *libroService) Crear(ctx context.Context, req dto.CrearLibroRequest) (*dto.LibroResponse, error) {
	if _, err := s.repo.FindByISBN(ctx, req.ISBN); err == nil {
		return nil, apierror.Conflict("¡El libro ya existe!")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	libro := &model.Libro{
		ISBN:    model.NormalizarISBN(req.ISBN),
		Titulo:  req.Titulo,
		Autor:   req.Autor,
		Stock:   req.Stock,
		Precio:  req.Precio,
		Genero:  req.Genero,
		Resumen: req.Resumen,
	}
	if req.FechaPublicacion != nil && *req.FechaPublicacion != "" {
		fecha, err := s.locales.Parse(*req.FechaPublicacion)
		if err != nil {
			return nil, apierror.Invalid(err.Error())
		}
		libro.FechaPublicacion = &fecha
	}
	if err := s.repo.Create(ctx, libro); err != nil {
		return nil, err
	}
	return s.toResponse(libro), nil
}

func (s *libroService) Buscar(ctx context.Context, filter dto.BuscarLibroFilter) (*dto.LibroResponse, error) {
	libro, err := s.repo.FindOne(ctx, filter)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound("No se encontró ningún libro con los criterios proporcionados")
	}
	if err != nil {
		return nil, err
	}
	return s.toResponse(libro), nil
}

func (s *libroService) Listar(ctx context.Context) ([]dto.LibroResponse, error) {
	libros, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.LibroResponse, 0, len(libros))
	for i := range libros {
		resp = append(resp, *s.toResponse(&libros[i]))
	}
	return resp, nil
}

func (s *libroService) Actualizar(ctx context.Context, isbn string, req dto.ActualizarLibroRequest) (*dto.LibroResponse, error) {
	libro, err := s.repo.FindByISBN(ctx, isbn)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound(fmt.Sprintf("No se encontró ningún libro con ISBN %s", isbn))
	}
	if err != nil {
		return nil, err
	}

	if req.Titulo != nil {
		libro.Titulo = *req.Titulo
	}
	if req.Autor != nil {
		libro.Autor = *req.Autor
	}
	if req.Precio != nil {
		libro.Precio = *req.Precio
	}
	if req.Genero != nil {
		libro.Genero = req.Genero
	}
	if req.Resumen != nil {
		libro.Resumen = req.Resumen
	}
	if req.FechaPublicacion != nil && *req.FechaPublicacion != "" {
		fecha, err := s.locales.Parse(*req.FechaPublicacion)
		if err != nil {
			return nil, apierror.Invalid(err.Error())
		}
		libro.FechaPublicacion = &fecha
	}

	if err := s.repo.Update(ctx, libro); err != nil {
		return nil, err
	}
	s.invalidarCachePrecio(ctx, libro.ISBN)
	return s.toResponse(libro), nil
}

func (s *libroService) Eliminar(ctx context.Context, isbn string) (*dto.LibroResponse, error) {
	libro, err := s.repo.FindByISBN(ctx, isbn)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound(fmt.Sprintf("No se encontró ningún libro con ISBN %s", isbn))
	}
	if err != nil {
		return nil, err
	}

	// Deleting a borrowed book would leave the later return incrementing a
	// ghost record; reject while an open loan references it.
	abierto, err := s.prestamoRepo.ExisteAbiertoPorLibro(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if abierto {
		return nil, apierror.Conflict(fmt.Sprintf("El libro con ISBN %s tiene un préstamo activo y no puede eliminarse", isbn))
	}

	if err := s.repo.Delete(ctx, isbn); err != nil {
		return nil, err
	}
	s.invalidarCachePrecio(ctx, libro.ISBN)
	return s.toResponse(libro), nil
}

// invalidarCachePrecio drops the price-lookup cache entry. Best effort.
func (s *libroService) invalidarCachePrecio(ctx context.Context, isbn string) {
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, "precio:"+isbn).Err()
	}
}

func (s *libroService) toResponse(l *model.Libro) *dto.LibroResponse {
	resp := &dto.LibroResponse{
		ISBN:    l.ISBN,
		Titulo:  l.Titulo,
		Autor:   l.Autor,
		Stock:   l.Stock,
		Precio:  l.Precio,
		Genero:  l.Genero,
		Resumen: l.Resumen,
	}
	if l.FechaPublicacion != nil {
		f := s.locales.Format(*l.FechaPublicacion)
		resp.FechaPublicacion = &f
	}
	return resp
}
