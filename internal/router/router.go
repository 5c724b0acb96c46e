package router

import (
	"time"

	"micromercado/internal/config"
	"micromercado/internal/handler"
	"micromercado/internal/infra"
	"micromercado/internal/middleware"
	"micromercado/internal/service"
	"micromercado/internal/store"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Services is everything the HTTP layer calls into. Built once by the
// composition root.
type Services struct {
	Productos service.ProductoService
	Clientes  service.ClienteService
	Cajeros   service.CajeroService
	Sesiones  service.SesionService
	Carrito   service.CarritoService
	Ventas    service.VentaService
	Pedidos   service.PedidoService
	Reportes  service.ReporteService
}

// Deps are the infrastructure handles /health reports on. Redis and SMTPCB
// may be nil.
type Deps struct {
	Store  *store.Store
	Redis  *redis.Client
	SMTPCB *infra.CircuitBreaker
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← Store ← KV backend
func New(cfg *config.Config, svc Services, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Origins()...))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svc.Sesiones, svc.Productos)
	productosH := handler.NewProductosHandler(svc.Productos)
	consultaH := handler.NewConsultaPreciosHandler(svc.Productos)
	carritoH := handler.NewCarritoHandler(svc.Carrito)
	ventasH := handler.NewVentasHandler(svc.Ventas, svc.Reportes)
	pedidosH := handler.NewPedidosHandler(svc.Pedidos)
	clientesH := handler.NewClientesHandler(svc.Clientes)
	cajerosH := handler.NewCajerosHandler(svc.Cajeros)
	reportesH := handler.NewReportesHandler(svc.Reportes)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(deps.Store, cfg.StoreBackend, deps.Redis, deps.SMTPCB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/v1/auth/login", middleware.LoginRateLimiter(), authH.Login)

	// Price check, no auth required
	r.GET("/v1/precio/:id", consultaH.GetPrecio)

	// Protected routes: every one runs under the caller's cashier session
	v1 := r.Group("/v1", middleware.SesionAuth(cfg.JWTSecret, svc.Sesiones))
	{
		v1.POST("/auth/logout", authH.Logout)
		v1.GET("/auth/me", authH.Me)

		prods := v1.Group("/productos")
		{
			prods.GET("", productosH.Listar)
			prods.GET("/alertas", productosH.Alertas)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
			prods.PATCH("/:id/stock", productosH.DescontarStock)
		}

		carrito := v1.Group("/carrito")
		{
			carrito.GET("", carritoH.Ver)
			carrito.DELETE("", carritoH.Vaciar)
			carrito.POST("/lineas", carritoH.Agregar)
			carrito.PUT("/lineas/:productoId", carritoH.FijarCantidad)
			carrito.DELETE("/lineas/:productoId", carritoH.Quitar)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.RegistrarVenta)
			ventas.GET("", ventasH.ListarVentas)
			ventas.GET("/:id", ventasH.ObtenerVenta)
			ventas.DELETE("/:id", ventasH.EliminarVenta)
			ventas.GET("/:id/ticket", ventasH.Ticket)
			ventas.GET("/:id/ticket/pdf", ventasH.TicketPDF)
		}

		pedidos := v1.Group("/pedidos")
		{
			pedidos.POST("", pedidosH.CrearPedido)
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/:id", pedidosH.Obtener)
			pedidos.PATCH("/:id/entregar", pedidosH.Entregar)
			pedidos.DELETE("/:id", pedidosH.Cancelar)
		}

		clientes := v1.Group("/clientes")
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		cajeros := v1.Group("/cajeros")
		{
			cajeros.POST("", cajerosH.Crear)
			cajeros.GET("", cajerosH.Listar)
			cajeros.GET("/:id", cajerosH.Obtener)
			cajeros.PUT("/:id", cajerosH.Actualizar)
			cajeros.DELETE("/:id", cajerosH.Eliminar)
		}

		reportes := v1.Group("/reportes")
		{
			reportes.POST("", reportesH.Crear)
			reportes.GET("", reportesH.Listar)
			reportes.GET("/:id", reportesH.Obtener)
			reportes.GET("/:id/pdf", reportesH.DescargarPDF)
			reportes.DELETE("/:id", reportesH.Eliminar)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
