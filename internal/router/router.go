package router

import (
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/handler"
	"tiendapos/internal/infra"
	"tiendapos/internal/middleware"
	"tiendapos/internal/repository"
	"tiendapos/internal/service"
	"tiendapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, waCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
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
	categoriaRepo := repository.NewCategoriaRepository(db)
	descuentoRepo := repository.NewDescuentoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, rdb)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	descuentoSvc := service.NewDescuentoService(descuentoRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, clienteRepo, dispatcher, cfg.PedidoTTLMinutos)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, pedidoRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	descuentosH := handler.NewDescuentosHandler(descuentoSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	carritoH := handler.NewCarritoHandler()

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, waCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Public storefront — no auth, tighter rate limit
	publico := r.Group("/v1/publico", middleware.RateLimiter(120, time.Minute))
	{
		publico.GET("/productos", productosH.ListarPublico)
		publico.POST("/pedidos", pedidosH.CrearPublico)
		publico.GET("/pedidos/:numero", pedidosH.Tracking)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		staff := middleware.RequireRole("cajero", "supervisor", "administrador")
		supervisores := middleware.RequireRole("supervisor", "administrador")
		admin := middleware.RequireRole("administrador")

		// POS cart quote — pure calculation, any staff
		v1.POST("/pos/cotizar", staff, carritoH.Cotizar)

		// Ventas
		v1.POST("/ventas", staff, ventasH.RegistrarVenta)
		v1.GET("/ventas", staff, ventasH.ListarVentas)
		v1.DELETE("/ventas/:id", supervisores, ventasH.AnularVenta)

		// Pedidos — creation and the happy-path transitions are cashier work;
		// cancelling needs a supervisor
		v1.POST("/pedidos", staff, pedidosH.Crear)
		v1.GET("/pedidos", staff, pedidosH.Listar)
		v1.GET("/pedidos/:id", staff, pedidosH.ObtenerPorID)
		v1.POST("/pedidos/:id/confirmar", staff, pedidosH.Confirmar)
		v1.POST("/pedidos/:id/despachar", staff, pedidosH.Despachar)
		v1.POST("/pedidos/:id/completar", staff, pedidosH.Completar)
		v1.POST("/pedidos/:id/cancelar", supervisores, pedidosH.Cancelar)
		v1.POST("/pedidos/:id/procesar", staff, ventasH.ProcesarPedido)

		// Productos — all staff read, administrador writes
		v1.GET("/productos", staff, productosH.Listar)
		v1.GET("/productos/:id", staff, productosH.ObtenerPorID)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		// Categorías
		v1.GET("/categorias", staff, categoriasH.Listar)
		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Desactivar)
		}

		// Descuentos
		v1.GET("/descuentos", staff, descuentosH.Listar)
		descuentos := v1.Group("/descuentos", admin)
		{
			descuentos.POST("", descuentosH.Crear)
			descuentos.PUT("/:id", descuentosH.Actualizar)
			descuentos.DELETE("/:id", descuentosH.Eliminar)
		}

		// Clientes
		v1.GET("/clientes", staff, clientesH.Listar)
		v1.GET("/clientes/:id", staff, clientesH.ObtenerPorID)
		v1.POST("/clientes", staff, clientesH.Crear)
		v1.PUT("/clientes/:id", staff, clientesH.Actualizar)
		v1.DELETE("/clientes/:id", supervisores, clientesH.Desactivar)
		v1.PATCH("/clientes/:id/reactivar", supervisores, clientesH.Reactivar)

		// Usuarios — administrador only
		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
			usuarios.PATCH("/:id/reactivar", authH.ReactivarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
