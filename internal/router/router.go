package router

import (
	"time"

	"chichapos/internal/config"
	"chichapos/internal/handler"
	"chichapos/internal/infra"
	"chichapos/internal/middleware"
	"chichapos/internal/repository"
	"chichapos/internal/service"
	"chichapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher, eventos *infra.EventBus, smtpCB *infra.CircuitBreaker) *gin.Engine {
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
	pedidoRepo := repository.NewPedidoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	appConfigRepo := repository.NewAppConfigRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, appConfigRepo, dispatcher, eventos)
	catalogoSvc := service.NewCatalogoService(categoriaRepo, productoRepo, rdb, time.Duration(cfg.MenuCacheTTL)*time.Second)
	reporteSvc := service.NewReporteService(pedidoRepo, dispatcher, cfg.ExportStoragePath)
	posSvc := service.NewPosService(pedidoRepo, productoRepo, eventos, cfg.TicketStoragePath)
	configSvc := service.NewConfigService(appConfigRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	posH := handler.NewPosHandler(posSvc)
	configH := handler.NewConfigHandler(configSvc)
	eventosH := handler.NewEventosHandler(eventos)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public — the storefront is anonymous
	r.GET("/health", handler.Health(db, rdb, smtpCB))
	r.GET("/v1/menu", catalogoH.Menu)
	r.GET("/v1/config", configH.Obtener)
	r.POST("/v1/pedidos", middleware.PedidoRateLimiter(), pedidosH.Crear)
	r.GET("/v1/pedidos/:id/whatsapp", pedidosH.LinkWhatsapp)

	// Operator surface — single static token
	v1 := r.Group("/v1", middleware.AdminAuth(cfg.AdminToken))
	{
		pedidos := v1.Group("/pedidos")
		{
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/tablero", pedidosH.Tablero)
			pedidos.GET("/:id", pedidosH.Obtener)
			pedidos.PATCH("/:id/estado", pedidosH.CambiarEstado)
			pedidos.PATCH("/:id/pago", pedidosH.CambiarEstadoPago)
			pedidos.DELETE("/:id", pedidosH.Eliminar)
		}

		categorias := v1.Group("/categorias")
		{
			categorias.POST("", catalogoH.CrearCategoria)
			categorias.GET("", catalogoH.ListarCategorias)
			categorias.PUT("/:id", catalogoH.ActualizarCategoria)
			categorias.DELETE("/:id", catalogoH.EliminarCategoria)
		}

		productos := v1.Group("/productos")
		{
			productos.POST("", catalogoH.CrearProducto)
			productos.GET("", catalogoH.ListarProductos)
			productos.GET("/:id", catalogoH.ObtenerProducto)
			productos.PUT("/:id", catalogoH.ActualizarProducto)
			productos.DELETE("/:id", catalogoH.EliminarProducto)
		}

		reportes := v1.Group("/reportes")
		{
			reportes.GET("/resumen", reportesH.Resumen)
			reportes.GET("/resumen/:rango", reportesH.ResumenRango)
			reportes.GET("/export", reportesH.Exportar)
			reportes.POST("/email", reportesH.EnviarEmail)
		}

		pos := v1.Group("/pos/sesiones")
		{
			pos.POST("", posH.CrearSesion)
			pos.GET("/:id", posH.Ver)
			pos.POST("/:id/items", posH.AgregarItem)
			pos.DELETE("/:id/items", posH.QuitarItem)
			pos.POST("/:id/checkout", posH.Checkout)
			pos.DELETE("/:id", posH.CerrarSesion)
		}

		v1.PATCH("/config", configH.Patch)
		v1.GET("/eventos", eventosH.Stream)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
