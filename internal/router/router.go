package router

import (
	"time"

	"andespos/internal/config"
	"andespos/internal/handler"
	"andespos/internal/infra"
	"andespos/internal/middleware"
	"andespos/internal/repository"
	"andespos/internal/service"
	"andespos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher, smtpCB *infra.CircuitBreaker) *gin.Engine {
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
	catalogoRepo := repository.NewCatalogoRepository(db)
	promocionRepo := repository.NewPromocionRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogo := service.NewCatalogo(catalogoRepo, promocionRepo, rdb)
	promocionSvc := service.NewPromocionService(promocionRepo, catalogo)
	turnoSvc := service.NewTurnoService(turnoRepo, dispatcher)
	ventaSvc := service.NewVentaService(ventaRepo, turnoRepo, turnoSvc, catalogo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	promocionesH := handler.NewPromocionHandler(promocionSvc)
	ventasH := handler.NewVentaHandler(ventaSvc)
	turnosH := handler.NewTurnoHandler(turnoSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Read-only catalog and promotion browsing — no operator header required
	r.GET("/v1/catalogo/productos", catalogoH.Productos)
	r.GET("/v1/catalogo/categorias", catalogoH.Categorias)

	promos := r.Group("/v1/promociones")
	{
		promos.POST("/elegibles", promocionesH.Elegibles)
		promos.POST("/seleccion/iniciar", promocionesH.IniciarSeleccion)
		promos.POST("/seleccion/item", promocionesH.OperarItem)
		promos.POST("/seleccion/validar", promocionesH.Validar)
	}

	// State-changing endpoints require the operator identity header
	v1 := r.Group("/v1", middleware.SesionOperador())
	{
		v1.POST("/ventas", ventasH.Registrar)
		v1.GET("/ventas", ventasH.List)
		v1.GET("/ventas/:id", ventasH.Get)
		v1.POST("/ventas/:id/pagos", ventasH.PagoPosterior)
		v1.POST("/ventas/:id/anular", ventasH.Anular)

		turnos := v1.Group("/turnos")
		{
			turnos.POST("/abrir", turnosH.AbrirTurno)
			turnos.POST("/:id/cerrar", turnosH.CerrarTurno)
		}

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", turnosH.AbrirCaja)
			caja.POST("/retiro", turnosH.Retiro)
			caja.POST("/cerrar", turnosH.CerrarCaja)
			caja.GET("/:id/balance", turnosH.Balance)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
