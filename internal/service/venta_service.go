package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"biblioteca/internal/apierror"
	"biblioteca/internal/dates"
	"biblioteca/internal/dto"
	"biblioteca/internal/model"
	"biblioteca/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fechaVentaMinima is the lower bound applied when a sales query gives no
// fechaInicio.
var fechaVentaMinima = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// VentaService is the sale side of the ledger.
//
// A sale competes with loans for the same stock counter but applies a
// stricter floor: it must leave at least stockMinimo copies in circulation,
// so a book with stock == stockMinimo cannot be sold while it could still be
// lent. Sales are append-only; there is no update or anulación path.
type VentaService interface {
	Registrar(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) ([]dto.VentaResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	prestamoRepo repository.PrestamoRepository
	libroRepo    repository.LibroRepository
	usuarioRepo  repository.UsuarioRepository
	locales      *dates.Locales
	stockMinimo  int
}

func NewVentaService(
	repo repository.VentaRepository,
	prestamoRepo repository.PrestamoRepository,
	libroRepo repository.LibroRepository,
	usuarioRepo repository.UsuarioRepository,
	locales *dates.Locales,
	stockMinimo int,
) VentaService {
	return &ventaService{
		repo:         repo,
		prestamoRepo: prestamoRepo,
		libroRepo:    libroRepo,
		usuarioRepo:  usuarioRepo,
		locales:      locales,
		stockMinimo:  stockMinimo,
	}
}

// ── Registrar ────────────────────────────────────────────────────────────────

func (s *ventaService) Registrar(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	descuento := 0
	if req.Descuento != nil {
		descuento = *req.Descuento
	}

	// Sale date defaults to the start of the current day so date-range
	// filters compare cleanly.
	fechaVenta := s.locales.InicioDelDia(s.locales.Ahora())
	if req.FechaVenta != nil && *req.FechaVenta != "" {
		parsed, err := s.locales.Parse(*req.FechaVenta)
		if err != nil {
			return nil, apierror.Invalid(err.Error())
		}
		fechaVenta = s.locales.InicioDelDia(parsed)
	}

	var resp *dto.VentaResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		libro, err := s.libroRepo.FindByISBNTx(tx, req.IDLibro)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound(fmt.Sprintf("El libro con ISBN '%s' no existe", req.IDLibro))
		}
		if err != nil {
			return err
		}
		if libro.Stock <= s.stockMinimo {
			return apierror.Conflict(fmt.Sprintf(
				"No hay ejemplares disponibles para la venta del libro '%s' con ISBN '%s'",
				libro.Titulo, req.IDLibro))
		}

		usuario, err := s.usuarioRepo.FindByEmailTx(tx, req.IDUsuario)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound(fmt.Sprintf("El usuario con ID '%s' no existe", req.IDUsuario))
		}
		if err != nil {
			return err
		}
		if !usuario.Activo {
			return apierror.Conflict(fmt.Sprintf(
				"El usuario '%s' con ID '%s' no está activo", usuario.NombreCompleto(), req.IDUsuario))
		}

		// Cross-ledger invariant: a user holding an unreturned loan cannot buy.
		abierto, err := s.prestamoRepo.FindAbiertoPorUsuarioTx(tx, req.IDUsuario)
		if err != nil {
			return err
		}
		if abierto != nil {
			return apierror.Conflict(fmt.Sprintf(
				"El usuario '%s' con ID '%s' ya tiene un préstamo activo con el libro %s",
				usuario.NombreCompleto(), req.IDUsuario, abierto.IDLibro))
		}

		precio := precioConDescuento(libro.Precio, descuento)

		info := "No se ha aplicado descuento"
		if descuento > 0 {
			info = fmt.Sprintf("Descuento del %d%%", descuento)
		}

		venta := &model.Venta{
			IDUsuario:     model.NormalizarEmail(req.IDUsuario),
			IDLibro:       model.NormalizarISBN(req.IDLibro),
			FechaVenta:    fechaVenta,
			Precio:        precio,
			Descuento:     descuento,
			Info:          info,
			NombreUsuario: usuario.NombreCompleto(),
			TituloLibro:   libro.Titulo,
		}
		if err := s.repo.CreateTx(tx, venta); err != nil {
			return err
		}

		ok, err := s.libroRepo.DecrementarStockTx(tx, req.IDLibro, s.stockMinimo)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict(fmt.Sprintf(
				"No hay ejemplares disponibles para la venta del libro '%s' con ISBN '%s'",
				libro.Titulo, req.IDLibro))
		}

		resp = s.toResponse(venta)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// precioConDescuento applies an integer percentage discount, rounded to cents.
func precioConDescuento(precio decimal.Decimal, descuento int) decimal.Decimal {
	if descuento == 0 {
		return precio
	}
	factor := decimal.NewFromInt(int64(100 - descuento)).Div(decimal.NewFromInt(100))
	return precio.Mul(factor).Round(2)
}

// ── Listar ───────────────────────────────────────────────────────────────────

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) ([]dto.VentaResponse, error) {
	desde := fechaVentaMinima
	if filter.FechaInicio != "" {
		parsed, err := s.locales.Parse(filter.FechaInicio)
		if err != nil {
			return nil, apierror.Invalid(err.Error())
		}
		desde = parsed
	}
	hasta := s.locales.Ahora()
	if filter.FechaFin != "" {
		parsed, err := s.locales.Parse(filter.FechaFin)
		if err != nil {
			return nil, apierror.Invalid(err.Error())
		}
		// Inclusive upper bound: the whole fechaFin day qualifies.
		hasta = s.locales.InicioDelDia(parsed).AddDate(0, 0, 1).Add(-time.Second)
	}

	ventas, err := s.repo.List(ctx, filter.IDUsuario, filter.IDLibro, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		resp = append(resp, *s.toResponse(&ventas[i]))
	}
	return resp, nil
}

func (s *ventaService) toResponse(v *model.Venta) *dto.VentaResponse {
	return &dto.VentaResponse{
		ID:            v.ID.String(),
		IDUsuario:     v.IDUsuario,
		IDLibro:       v.IDLibro,
		FechaVenta:    s.locales.Format(v.FechaVenta),
		Precio:        v.Precio,
		Descuento:     v.Descuento,
		Info:          v.Info,
		NombreUsuario: v.NombreUsuario,
		TituloLibro:   v.TituloLibro,
	}
}
