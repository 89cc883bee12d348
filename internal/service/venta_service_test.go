package service_test

import (
	"context"
	"testing"

	"biblioteca/internal/apierror"
	"biblioteca/internal/dto"
	"biblioteca/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildVentaSvc(stockMinimo int) (service.VentaService, *stubVentaRepo, *stubPrestamoRepo, *stubLibroRepo, *stubUsuarioRepo) {
	ventaRepo := newStubVentaRepo()
	prestamoRepo := newStubPrestamoRepo()
	libroRepo := newStubLibroRepo()
	usuarioRepo := newStubUsuarioRepo()
	svc := service.NewVentaService(ventaRepo, prestamoRepo, libroRepo, usuarioRepo, utcLocales(), stockMinimo)
	return svc, ventaRepo, prestamoRepo, libroRepo, usuarioRepo
}

func ptrInt(n int) *int       { return &n }
func ptrStr(s string) *string { return &s }

func TestRegistrarVenta_SinDescuento(t *testing.T) {
	svc, _, _, libroRepo, usuarioRepo := buildVentaSvc(1)
	seedLibro(libroRepo, "978-84-376-0494-7", "Cien años de soledad", 5, "21.90")
	seedUsuario(usuarioRepo, "ana@example.com", true)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		IDUsuario: "ana@example.com",
		IDLibro:   "978-84-376-0494-7",
	})
	require.NoError(t, err)
	assert.True(t, resp.Precio.Equal(decimalDe("21.90")), "precio: %s", resp.Precio)
	assert.Equal(t, 0, resp.Descuento)
	assert.Equal(t, "No se ha aplicado descuento", resp.Info)
	assert.Equal(t, "María López", resp.NombreUsuario)
	assert.Equal(t, "Cien años de soledad", resp.TituloLibro)

	hoy := utcLocales().Format(utcLocales().Ahora())
	assert.Equal(t, hoy, resp.FechaVenta)

	l, err := libroRepo.FindByISBN(context.Background(), "978-84-376-0494-7")
	require.NoError(t, err)
	assert.Equal(t, 4, l.Stock)
}

func TestRegistrarVenta_ConDescuento(t *testing.T) {
	svc, _, _, libroRepo, usuarioRepo := buildVentaSvc(1)
	seedLibro(libroRepo, "978-84-376-0494-7", "Cien años de soledad", 5, "20.00")
	seedUsuario(usuarioRepo, "ana@example.com", true)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		IDUsuario: "ana@example.com",
		IDLibro:   "978-84-376-0494-7",
		Descuento: ptrInt(10),
	})
	require.NoError(t, err)
	assert.True(t, resp.Precio.Equal(decimalDe("18.00")), "precio: %s", resp.Precio)
	assert.Equal(t, 10, resp.Descuento)
	assert.Equal(t, "Descuento del 10%", resp.Info)
}

func TestRegistrarVenta_FechaExplicita(t *testing.T) {
	svc, _, _, libroRepo, usuarioRepo := buildVentaSvc(1)
	seedLibro(libroRepo, "978-84-376-0494-7", "Cien años de soledad", 5, "21.90")
	seedUsuario(usuarioRepo, "ana@example.com", true)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		IDUsuario:  "ana@example.com",
		IDLibro:    "978-84-376-0494-7",
		FechaVenta: ptrStr("15-03-2026"),
	})
	require.NoError(t, err)
	assert.Equal(t, "15-03-2026", resp.FechaVenta)
}

func TestRegistrarVenta_FechaInvalida(t *testing.T) {
	svc, _, _, libroRepo, usuarioRepo := buildVentaSvc(1)
	seedLibro(libroRepo, "978-84-376-0494-7", "Cien años de soledad", 5, "21.90")
	seedUsuario(usuarioRepo, "ana@example.com", true)

	_, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		IDUsuario:  "ana@example.com",
		IDLibro:    "978-84-376-0494-7",
		FechaVenta: ptrStr("2026/03/15"),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsInvalid(err))
	assert.False(t, apierror.IsConflict(err))
	assert.Contains(t, err.Error(), "DD-MM-YYYY")
}

func TestListarVentas_FechaInvalida(t *testing.T) {
	svc, _, _, _, _ := buildVentaSvc(1)

	_, err := svc.Listar(context.Background(), dto.VentaFilter{FechaInicio: "03-2026"})
	require.Error(t, err)
	assert.True(t, apierror.IsInvalid(err))
}

// Stock en el mínimo: el último ejemplar queda reservado para préstamos.
func TestRegistrarVenta_StockEnElMinimo(t *testing.T) {
	svc, _, _, libroRepo, usuarioRepo := buildVentaSvc(1)
	seedLibro(libroRepo, "978-84-376-0494-7", "Cien años de soledad", 1, "21.90")
	seedUsuario(usuarioRepo, "ana@example.com", true)

	_, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		IDUsuario: "ana@example.com",
		IDLibro:   "978-84-376-0494-7",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsConflict(err))
	assert.Contains(t, err.Error(), "No hay ejemplares disponibles para la venta")

	l, err := libroRepo.FindByISBN(context.Background(), "978-84-376-0494-7")
	require.NoError(t, err)
	assert.Equal(t, 1, l.Stock)
}

func TestRegistrarVenta_LibroNoExiste(t *testing.T) {
	svc, _, _, _, usuarioRepo := buildVentaSvc(1)
	seedUsuario(usuarioRepo, "ana@example.com", true)

	_, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		IDUsuario: "ana@example.com",
		IDLibro:   "978-00-000-0000-0",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsNotFound(err))
}

func TestRegistrarVenta_UsuarioInactivo(t *testing.T) {
	svc, _, _, libroRepo, usuarioRepo := buildVentaSvc(1)
	seedLibro(libroRepo, "978-84-376-0494-7", "Cien años de soledad", 5, "21.90")
	seedUsuario(usuarioRepo, "ana@example.com", false)

	_, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		IDUsuario: "ana@example.com",
		IDLibro:   "978-84-376-0494-7",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsConflict(err))
	assert.Contains(t, err.Error(), "no está activo")
}

// Un préstamo abierto bloquea la compra, aunque sea de otro libro.
func TestRegistrarVenta_UsuarioConPrestamoAbierto(t *testing.T) {
	svc, _, prestamoRepo, libroRepo, usuarioRepo := buildVentaSvc(1)
	seedLibro(libroRepo, "978-84-376-0494-7", "Cien años de soledad", 5, "21.90")
	seedLibro(libroRepo, "978-84-204-8230-5", "La sombra del viento", 5, "19.50")
	seedUsuario(usuarioRepo, "ana@example.com", true)

	prestamoSvc := service.NewPrestamoService(prestamoRepo, libroRepo, usuarioRepo, utcLocales(), 15)
	_, err := prestamoSvc.Crear(context.Background(), dto.CrearPrestamoRequest{
		IDUsuario: "ana@example.com", IDLibro: "978-84-204-8230-5", DiasPrestamo: 7,
	})
	require.NoError(t, err)

	_, err = svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		IDUsuario: "ana@example.com",
		IDLibro:   "978-84-376-0494-7",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsConflict(err))
	assert.Contains(t, err.Error(), "ya tiene un préstamo activo")
}

func TestListarVentas_RangoFechas(t *testing.T) {
	svc, _, _, libroRepo, usuarioRepo := buildVentaSvc(1)
	seedLibro(libroRepo, "978-84-376-0494-7", "Cien años de soledad", 10, "21.90")
	seedUsuario(usuarioRepo, "ana@example.com", true)

	for _, fecha := range []string{"10-01-2026", "15-01-2026", "20-01-2026"} {
		_, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
			IDUsuario:  "ana@example.com",
			IDLibro:    "978-84-376-0494-7",
			FechaVenta: ptrStr(fecha),
		})
		require.NoError(t, err)
	}

	// Rango inclusivo por ambos extremos.
	res, err := svc.Listar(context.Background(), dto.VentaFilter{
		FechaInicio: "10-01-2026",
		FechaFin:    "15-01-2026",
	})
	require.NoError(t, err)
	assert.Len(t, res, 2)

	// Sin fechaInicio el rango baja hasta 01-01-1900.
	res, err = svc.Listar(context.Background(), dto.VentaFilter{FechaFin: "12-01-2026"})
	require.NoError(t, err)
	assert.Len(t, res, 1)

	res, err = svc.Listar(context.Background(), dto.VentaFilter{})
	require.NoError(t, err)
	assert.Len(t, res, 3)
}

func TestListarVentas_FiltroUsuarioYLibro(t *testing.T) {
	svc, _, _, libroRepo, usuarioRepo := buildVentaSvc(1)
	seedLibro(libroRepo, "978-84-376-0494-7", "Cien años de soledad", 10, "21.90")
	seedLibro(libroRepo, "978-84-204-8230-5", "La sombra del viento", 10, "19.50")
	seedUsuario(usuarioRepo, "ana@example.com", true)
	seedUsuario(usuarioRepo, "luis@example.com", true)

	_, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		IDUsuario: "ana@example.com", IDLibro: "978-84-376-0494-7",
	})
	require.NoError(t, err)
	_, err = svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		IDUsuario: "luis@example.com", IDLibro: "978-84-204-8230-5",
	})
	require.NoError(t, err)

	res, err := svc.Listar(context.Background(), dto.VentaFilter{IDUsuario: "ana@example.com"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "978-84-376-0494-7", res[0].IDLibro)

	res, err = svc.Listar(context.Background(), dto.VentaFilter{IDLibro: "978-84-204-8230-5"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "luis@example.com", res[0].IDUsuario)
}

// El nombre y el título viajan con la venta aunque el registro fuente cambie.
func TestVentas_SnapshotInmutable(t *testing.T) {
	svc, _, _, libroRepo, usuarioRepo := buildVentaSvc(1)
	seedLibro(libroRepo, "978-84-376-0494-7", "Cien años de soledad", 10, "21.90")
	seedUsuario(usuarioRepo, "ana@example.com", true)

	_, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		IDUsuario: "ana@example.com", IDLibro: "978-84-376-0494-7",
	})
	require.NoError(t, err)

	l, err := libroRepo.FindByISBN(context.Background(), "978-84-376-0494-7")
	require.NoError(t, err)
	l.Titulo = "Título corregido"
	require.NoError(t, libroRepo.Update(context.Background(), l))

	res, err := svc.Listar(context.Background(), dto.VentaFilter{})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Cien años de soledad", res[0].TituloLibro)
}
