package router

import (
	"time"

	"github.com/MaikonGithub/QualiCam/internal/config"
	"github.com/MaikonGithub/QualiCam/internal/handler"
	"github.com/MaikonGithub/QualiCam/internal/infra"
	"github.com/MaikonGithub/QualiCam/internal/middleware"
	"github.com/MaikonGithub/QualiCam/internal/repository"
	"github.com/MaikonGithub/QualiCam/internal/service"
	"github.com/MaikonGithub/QualiCam/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, template *infra.LabelTemplate, printerCB *infra.CircuitBreaker) *gin.Engine {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	printer := infra.NewLPRClient(cfg.PrinterQueue,
		time.Duration(cfg.PrintTimeoutSeconds)*time.Second, printerCB)
	pool := worker.NewPrintPool(printer, cfg.PrintPoolSize)

	// ── Repositories ─────────────────────────────────────────────────────────
	chapaRepo := repository.NewChapaRepository(db)
	movRepo := repository.NewMovimentacaoRepository(db)
	retalhoRepo := repository.NewRetalhoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	estoqueSvc := service.NewEstoqueService(chapaRepo, movRepo, retalhoRepo, rdb)
	etiquetaSvc := service.NewEtiquetaService(chapaRepo, template, printer, pool)

	// ── Handlers ─────────────────────────────────────────────────────────────
	chapasH := handler.NewChapasHandler(estoqueSvc)
	appH := handler.NewAppHandler(estoqueSvc)
	etiquetasH := handler.NewEtiquetasHandler(etiquetaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health)

	// v1 dialect (desktop client)
	chapas := r.Group("/chapas")
	{
		chapas.GET("", chapasH.Listar)
		chapas.POST("/adicionar", chapasH.Adicionar)
		chapas.POST("/update-area", chapasH.AtualizarArea)
		chapas.POST("/transformar-retalho", chapasH.TransformarRetalho)
		chapas.GET("/metragem-total", chapasH.MetragemTotal)
		chapas.GET("/relatorio-pdf", chapasH.RelatorioPDF)
		chapas.GET("/:id/movimentacoes", chapasH.Movimentacoes)
	}
	r.GET("/retalhos", chapasH.ListarRetalhos)

	// Printing
	r.POST("/impressora/testar", etiquetasH.Testar)
	r.POST("/etiquetas/gerar", etiquetasH.Gerar)

	// /app dialect (mobile client)
	app := r.Group("/app")
	{
		app.GET("/health", handler.AppHealth)
		app.GET("/chapas", appH.ListarChapas)
		app.POST("/chapas", appH.CriarChapa)
		app.GET("/chapas/:id", appH.ObterChapa)
		app.PUT("/chapas/:id", appH.AtualizarChapa)
		app.DELETE("/chapas/:id", appH.RemoverChapa)
		app.POST("/retalhos", appH.CriarRetalho)
		app.GET("/retalhos", appH.ListarRetalhos)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
