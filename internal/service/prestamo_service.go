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

	"gorm.io/gorm"
)

// PrestamoService is the loan side of the ledger. Every mutation runs inside
// one transaction spanning the loan ledger, the catalog stock counter and the
// user's activo flag; a reader never observes a loan row without its stock
// decrement or vice versa.
type PrestamoService interface {
	Crear(ctx context.Context, req dto.CrearPrestamoRequest) (*dto.PrestamoResponse, error)
	Devolver(ctx context.Context, req dto.DevolverPrestamoRequest) (*dto.PrestamoResponse, error)
	Eliminar(ctx context.Context, idUsuario, idLibro string) (*dto.PrestamoResponse, error)
	Listar(ctx context.Context, filter dto.PrestamoFilter) ([]dto.PrestamoResponse, error)
}

type prestamoService struct {
	repo        repository.PrestamoRepository
	libroRepo   repository.LibroRepository
	usuarioRepo repository.UsuarioRepository
	locales     *dates.Locales
	diasMax     int
}

func NewPrestamoService(
	repo repository.PrestamoRepository,
	libroRepo repository.LibroRepository,
	usuarioRepo repository.UsuarioRepository,
	locales *dates.Locales,
	diasMax int,
) PrestamoService {
	return &prestamoService{
		repo:        repo,
		libroRepo:   libroRepo,
		usuarioRepo: usuarioRepo,
		locales:     locales,
		diasMax:     diasMax,
	}
}

// ── Crear ────────────────────────────────────────────────────────────────────

func (s *prestamoService) Crear(ctx context.Context, req dto.CrearPrestamoRequest) (*dto.PrestamoResponse, error) {
	if req.DiasPrestamo > s.diasMax {
		return nil, apierror.Conflict(fmt.Sprintf("El plazo máximo de préstamo es de %d días", s.diasMax))
	}

	var resp *dto.PrestamoResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		libro, err := s.libroRepo.FindByISBNTx(tx, req.IDLibro)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound(fmt.Sprintf("El libro con ISBN %s no existe", req.IDLibro))
		}
		if err != nil {
			return err
		}
		if libro.Stock <= 0 {
			return apierror.Conflict(fmt.Sprintf("No hay ejemplares disponibles del libro con ISBN %s", req.IDLibro))
		}

		usuario, err := s.usuarioRepo.FindByEmailTx(tx, req.IDUsuario)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound(fmt.Sprintf("El usuario con ID %s no existe", req.IDUsuario))
		}
		if err != nil {
			return err
		}
		if !usuario.Activo {
			return apierror.Conflict(fmt.Sprintf("El usuario con ID %s no está activo", req.IDUsuario))
		}

		// One active loan per user, checked against the whole ledger.
		abierto, err := s.repo.FindAbiertoPorUsuarioTx(tx, req.IDUsuario)
		if err != nil {
			return err
		}
		if abierto != nil {
			return apierror.Conflict(fmt.Sprintf("El usuario con ID %s ya tiene un préstamo activo", req.IDUsuario))
		}

		ahora := s.locales.Ahora()
		prestamo := &model.Prestamo{
			IDUsuario:       model.NormalizarEmail(req.IDUsuario),
			IDLibro:         model.NormalizarISBN(req.IDLibro),
			FechaPrestamo:   ahora,
			FechaDevolucion: ahora.AddDate(0, 0, req.DiasPrestamo),
		}
		if err := s.repo.CreateTx(tx, prestamo); err != nil {
			return err
		}

		ok, err := s.libroRepo.DecrementarStockTx(tx, req.IDLibro, 0)
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent loan or sale took the last copy between the read
			// above and this guarded update.
			return apierror.Conflict(fmt.Sprintf("No hay ejemplares disponibles del libro con ISBN %s", req.IDLibro))
		}

		libro.Stock--
		resp = s.toResponse(prestamo, usuario, libro)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// ── Devolver ─────────────────────────────────────────────────────────────────

func (s *prestamoService) Devolver(ctx context.Context, req dto.DevolverPrestamoRequest) (*dto.PrestamoResponse, error) {
	fechaReal, err := s.locales.Parse(req.FechaDevolucionReal)
	if err != nil {
		return nil, apierror.Invalid(err.Error())
	}

	var resp *dto.PrestamoResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		libro, err := s.libroRepo.FindByISBNTx(tx, req.IDLibro)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound(fmt.Sprintf("El libro con ISBN %s no existe", req.IDLibro))
		}
		if err != nil {
			return err
		}

		prestamo, err := s.repo.FindAbiertoTx(tx, req.IDUsuario, req.IDLibro)
		if err != nil {
			return err
		}
		if prestamo == nil {
			return apierror.NotFound(fmt.Sprintf("El libro con ISBN %s no está prestado", req.IDLibro))
		}

		usuario, err := s.usuarioRepo.FindByEmailTx(tx, req.IDUsuario)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound(fmt.Sprintf("El usuario con ID %s no existe", req.IDUsuario))
		}
		if err != nil {
			return err
		}

		prestamo.FechaDevolucionReal = &fechaReal
		if err := s.repo.UpdateTx(tx, prestamo); err != nil {
			return err
		}

		// Strictly-late return sanctions the user inside the same
		// transaction; returning exactly on the due date is on time.
		if prestamo.Retrasado(fechaReal) {
			if err := s.usuarioRepo.SetActivoTx(tx, req.IDUsuario, false); err != nil {
				return err
			}
			usuario.Activo = false
		}

		if err := s.libroRepo.IncrementarStockTx(tx, req.IDLibro); err != nil {
			return err
		}

		libro.Stock++
		resp = s.toResponse(prestamo, usuario, libro)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// ── Eliminar ─────────────────────────────────────────────────────────────────

// Eliminar removes the loan record entirely and restores stock. Unlike
// Devolver it never sanctions the user.
func (s *prestamoService) Eliminar(ctx context.Context, idUsuario, idLibro string) (*dto.PrestamoResponse, error) {
	var resp *dto.PrestamoResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		libro, err := s.libroRepo.FindByISBNTx(tx, idLibro)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound(fmt.Sprintf("El libro con ISBN %s no existe", idLibro))
		}
		if err != nil {
			return err
		}

		prestamo, err := s.repo.FindAbiertoTx(tx, idUsuario, idLibro)
		if err != nil {
			return err
		}
		if prestamo == nil {
			return apierror.NotFound(fmt.Sprintf("El libro con ISBN %s no está prestado", idLibro))
		}

		usuario, err := s.usuarioRepo.FindByEmailTx(tx, idUsuario)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound(fmt.Sprintf("El usuario con ID %s no existe", idUsuario))
		}
		if err != nil {
			return err
		}

		if err := s.repo.DeleteTx(tx, prestamo.ID); err != nil {
			return err
		}
		if err := s.libroRepo.IncrementarStockTx(tx, idLibro); err != nil {
			return err
		}

		libro.Stock++
		resp = s.toResponse(prestamo, usuario, libro)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// ── Listar ───────────────────────────────────────────────────────────────────

// Listar is the read side: no transaction, each loan joined with the current
// usuario/libro records for presentation.
func (s *prestamoService) Listar(ctx context.Context, filter dto.PrestamoFilter) ([]dto.PrestamoResponse, error) {
	prestamos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.PrestamoResponse, 0, len(prestamos))
	for i := range prestamos {
		p := &prestamos[i]
		var usuario model.Usuario
		if u, err := s.usuarioRepo.FindByEmail(ctx, p.IDUsuario); err == nil {
			usuario = *u
		}
		var libro model.Libro
		if l, err := s.libroRepo.FindByISBN(ctx, p.IDLibro); err == nil {
			libro = *l
		}
		resp = append(resp, *s.toResponse(p, &usuario, &libro))
	}
	return resp, nil
}

func (s *prestamoService) toResponse(p *model.Prestamo, u *model.Usuario, l *model.Libro) *dto.PrestamoResponse {
	resp := &dto.PrestamoResponse{
		IDUsuario:       p.IDUsuario,
		IDLibro:         p.IDLibro,
		FechaPrestamo:   s.locales.Format(p.FechaPrestamo),
		FechaDevolucion: s.locales.Format(p.FechaDevolucion),
		Usuario: dto.UsuarioSnapshot{
			Nombre: u.NombreCompleto(),
			Activo: u.Activo,
		},
		Libro: dto.LibroSnapshot{
			Titulo: l.Titulo,
			Autor:  l.Autor,
			Stock:  l.Stock,
		},
	}
	if p.FechaDevolucionReal != nil {
		f := s.locales.Format(*p.FechaDevolucionReal)
		resp.FechaDevolucionReal = &f
	}
	return resp
}
