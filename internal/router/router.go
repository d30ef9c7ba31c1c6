package router

import (
	"time"

	"almacenpos/internal/config"
	"almacenpos/internal/handler"
	"almacenpos/internal/middleware"
	"almacenpos/internal/repository"
	"almacenpos/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, service.InventarioService) {
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
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	historialPrecioRepo := repository.NewHistorialPrecioRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, historialPrecioRepo, rdb)
	inventarioSvc := service.NewInventarioService(productoRepo, loteRepo, movimientoStockRepo)
	cajaSvc := service.NewCajaService(cajaRepo)
	compraSvc := service.NewCompraService(productoRepo, loteRepo, proveedorRepo, inventarioSvc, cajaSvc)
	ventaSvc := service.NewVentaService(cfg, productoRepo, ventaRepo, clienteRepo, inventarioSvc, cajaSvc)
	reporteSvc := service.NewReporteService(reporteRepo, cajaSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc, inventarioSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	comprasH := handler.NewComprasHandler(compraSvc, inventarioSvc, cfg.AlertaVencimientoDias)
	cajaH := handler.NewCajaHandler(cajaSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorRepo)
	clientesH := handler.NewClientesHandler(clienteRepo)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required (price-checker kiosks)
	r.GET("/v1/precio/:codigo", consultaH.GetPrecioPorCodigo)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	todos := middleware.RequireRole("cajero", "supervisor", "administrador")
	supervisores := middleware.RequireRole("supervisor", "administrador")
	admin := middleware.RequireRole("administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/ventas", todos, ventasH.RegistrarVenta)
		v1.GET("/ventas", todos, ventasH.ListarVentas)
		v1.GET("/ventas/:id", todos, ventasH.ObtenerPorID)
		v1.DELETE("/ventas/:id", supervisores, ventasH.AnularVenta)

		v1.POST("/compras", supervisores, comprasH.RegistrarCompra)
		v1.GET("/compras", todos, comprasH.Listar)
		v1.GET("/compras/por-vencer", todos, comprasH.PorVencer)
		v1.GET("/compras/:id", todos, comprasH.ObtenerPorID)

		caja := v1.Group("/caja")
		{
			caja.POST("/movimiento", todos, cajaH.RegistrarMovimiento)
			caja.GET("/saldo", todos, cajaH.Saldo)
			caja.GET("/movimientos", todos, cajaH.ListarMovimientos)
			// Destructive: removes the row without recomputing later balances.
			caja.DELETE("/movimientos/:id", admin, cajaH.EliminarMovimiento)
		}

		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/:id", todos, productosH.ObtenerPorID)
		v1.GET("/productos/:id/historial-precios", todos, productosH.HistorialPrecios)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
			prods.POST("/:id/recalcular-stock", productosH.RecalcularStock)
		}

		v1.GET("/inventario/movimientos", supervisores, inventarioH.ListarMovimientos)

		v1.GET("/reportes/resumen", supervisores, reportesH.Resumen)

		prov := v1.Group("/proveedores", supervisores)
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Eliminar)
		}

		cli := v1.Group("/clientes", todos)
		{
			cli.POST("", clientesH.Crear)
			cli.GET("", clientesH.Listar)
			cli.GET("/:id", clientesH.ObtenerPorID)
			cli.PUT("/:id", clientesH.Actualizar)
			cli.DELETE("/:id", clientesH.Eliminar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, inventarioSvc
}
