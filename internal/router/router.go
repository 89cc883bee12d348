package router

import (
	"time"

	"biblioteca/internal/config"
	"biblioteca/internal/dates"
	"biblioteca/internal/handler"
	"biblioteca/internal/middleware"
	"biblioteca/internal/repository"
	"biblioteca/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, locales *dates.Locales) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	libroRepo := repository.NewLibroRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	prestamoRepo := repository.NewPrestamoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	libroSvc := service.NewLibroService(libroRepo, prestamoRepo, rdb, locales)
	usuarioSvc := service.NewUsuarioService(usuarioRepo, prestamoRepo)
	prestamoSvc := service.NewPrestamoService(prestamoRepo, libroRepo, usuarioRepo, locales, cfg.DiasMaxPrestamo)
	ventaSvc := service.NewVentaService(ventaRepo, prestamoRepo, libroRepo, usuarioRepo, locales, cfg.StockMinimoVenta)

	// ── Handlers ─────────────────────────────────────────────────────────────
	librosH := handler.NewLibrosHandler(libroSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	prestamosH := handler.NewPrestamosHandler(prestamoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	precioH := handler.NewConsultaPrecioHandler(libroRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		libros := v1.Group("/libros")
		{
			libros.POST("", librosH.Crear)
			libros.GET("", librosH.Listar)
			libros.GET("/buscar", librosH.Buscar)
			libros.PATCH("/:isbn", librosH.Actualizar)
			libros.DELETE("/:isbn", librosH.Eliminar)
		}

		usuarios := v1.Group("/usuarios")
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.GET("/:email", usuariosH.Buscar)
			usuarios.PATCH("/:email", usuariosH.Actualizar)
			usuarios.PATCH("/:email/reactivar", usuariosH.Reactivar)
			usuarios.DELETE("/:email", usuariosH.Eliminar)
		}

		prestamos := v1.Group("/prestamos")
		{
			prestamos.POST("", prestamosH.Crear)
			prestamos.GET("", prestamosH.Listar)
			prestamos.PATCH("", prestamosH.Devolver)
			prestamos.DELETE("/:idUsuario/:idLibro", prestamosH.Eliminar)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.Registrar)
			ventas.GET("", ventasH.Listar)
		}

		// Price check — read-only, redis-cached
		v1.GET("/precio/:isbn", precioH.GetPrecioPorISBN)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
