package service

import (
	"context"
	"errors"
	"fmt"

	"biblioteca/internal/apierror"
	"biblioteca/internal/dto"
	"biblioteca/internal/model"
	"biblioteca/internal/repository"

	"gorm.io/gorm"
)

// UsuarioService handles directory CRUD. The activo flag is also flipped by
// the loan ledger on late returns; Reactivar is the administrative path to
// lift that sanction.
type UsuarioService interface {
	Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	Buscar(ctx context.Context, email string) (*dto.UsuarioResponse, error)
	Listar(ctx context.Context) ([]dto.UsuarioResponse, error)
	Actualizar(ctx context.Context, email string, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	Eliminar(ctx context.Context, email string) (*dto.UsuarioResponse, error)
	Reactivar(ctx context.Context, email string) (*dto.UsuarioResponse, error)
}

type usuarioService struct {
	repo         repository.UsuarioRepository
	prestamoRepo repository.PrestamoRepository
}

func NewUsuarioService(repo repository.UsuarioRepository, prestamoRepo repository.PrestamoRepository) UsuarioService {
	return &usuarioService{repo: repo, prestamoRepo: prestamoRepo}
}

func (s *usuarioService) Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apierror.Conflict("¡El usuario ya existe!")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}
	usuario := &model.Usuario{
		Email:     model.NormalizarEmail(req.Email),
		Nombre:    req.Nombre,
		Apellido1: req.Apellido1,
		Apellido2: req.Apellido2,
		Activo:    activo,
	}
	if err := s.repo.Create(ctx, usuario); err != nil {
		return nil, err
	}
	return toUsuarioResponse(usuario), nil
}

func (s *usuarioService) Buscar(ctx context.Context, email string) (*dto.UsuarioResponse, error) {
	usuario, err := s.findOrNotFound(ctx, email)
	if err != nil {
		return nil, err
	}
	return toUsuarioResponse(usuario), nil
}

func (s *usuarioService) Listar(ctx context.Context) ([]dto.UsuarioResponse, error) {
	usuarios, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		resp = append(resp, *toUsuarioResponse(&usuarios[i]))
	}
	return resp, nil
}

func (s *usuarioService) Actualizar(ctx context.Context, email string, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	usuario, err := s.findOrNotFound(ctx, email)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		usuario.Nombre = *req.Nombre
	}
	if req.Apellido1 != nil {
		usuario.Apellido1 = *req.Apellido1
	}
	if req.Apellido2 != nil {
		usuario.Apellido2 = req.Apellido2
	}
	if req.Activo != nil {
		usuario.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, usuario); err != nil {
		return nil, err
	}
	return toUsuarioResponse(usuario), nil
}

func (s *usuarioService) Eliminar(ctx context.Context, email string) (*dto.UsuarioResponse, error) {
	usuario, err := s.findOrNotFound(ctx, email)
	if err != nil {
		return nil, err
	}

	abierto, err := s.prestamoRepo.ExisteAbiertoPorUsuario(ctx, email)
	if err != nil {
		return nil, err
	}
	if abierto {
		return nil, apierror.Conflict(fmt.Sprintf("El usuario con ID %s tiene un préstamo activo y no puede eliminarse", email))
	}

	if err := s.repo.Delete(ctx, email); err != nil {
		return nil, err
	}
	return toUsuarioResponse(usuario), nil
}

func (s *usuarioService) Reactivar(ctx context.Context, email string) (*dto.UsuarioResponse, error) {
	usuario, err := s.findOrNotFound(ctx, email)
	if err != nil {
		return nil, err
	}
	usuario.Activo = true
	if err := s.repo.Update(ctx, usuario); err != nil {
		return nil, err
	}
	return toUsuarioResponse(usuario), nil
}

func (s *usuarioService) findOrNotFound(ctx context.Context, email string) (*model.Usuario, error) {
	usuario, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound(fmt.Sprintf("El usuario con ID %s no existe", email))
	}
	if err != nil {
		return nil, err
	}
	return usuario, nil
}

func toUsuarioResponse(u *model.Usuario) *dto.UsuarioResponse {
	return &dto.UsuarioResponse{
		Email:          u.Email,
		Nombre:         u.Nombre,
		Apellido1:      u.Apellido1,
		Apellido2:      u.Apellido2,
		Activo:         u.Activo,
		NombreCompleto: u.NombreCompleto(),
	}
}
