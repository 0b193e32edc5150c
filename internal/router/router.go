package router

import (
	"time"

	"github.com/marcadamcarter/pantry-scanner/internal/config"
	"github.com/marcadamcarter/pantry-scanner/internal/handler"
	"github.com/marcadamcarter/pantry-scanner/internal/infra"
	"github.com/marcadamcarter/pantry-scanner/internal/middleware"
	"github.com/marcadamcarter/pantry-scanner/internal/repository"
	"github.com/marcadamcarter/pantry-scanner/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, catalogCB *infra.CircuitBreaker) *gin.Engine {
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
	catalogClient := infra.NewCatalogClient(cfg.CatalogBaseURL)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	lotRepo := repository.NewLotRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(itemRepo, lotRepo, movementRepo)
	lookupSvc := service.NewLookupService(catalogClient, catalogCB)
	scanSvc := service.NewScanService(lookupSvc, inventorySvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	itemsH := handler.NewItemsHandler(inventorySvc)
	lotsH := handler.NewLotsHandler(inventorySvc)
	scanH := handler.NewScanHandler(scanSvc)
	lookupH := handler.NewLookupHandler(lookupSvc)
	reportsH := handler.NewReportsHandler(inventorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, catalogCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Barcode lookup — no auth required so the capture client can resolve
	// product info before the user has logged in on a shared device
	r.GET("/v1/lookup/:barcode", lookupH.ByBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: member, admin — every member can manage inventory
		items := v1.Group("/items", middleware.RequireRole("member", "admin"))
		{
			items.POST("", itemsH.Create)
			items.GET("", itemsH.List)
			items.GET("/:id", itemsH.Get)
			items.PUT("/:id", itemsH.Update)
			items.DELETE("/:id", itemsH.Delete)
			items.PATCH("/:id/quantity", itemsH.AdjustQuantity)
			items.GET("/:id/movements", itemsH.ListMovements)
			items.POST("/:id/lots", lotsH.Add)
		}
		v1.DELETE("/lots/:lot_id", middleware.RequireRole("member", "admin"), lotsH.Delete)

		scan := v1.Group("/scan-sessions", middleware.RequireRole("member", "admin"))
		{
			scan.POST("", scanH.StartSession)
			scan.GET("/:session_id", scanH.GetSession)
			scan.POST("/:session_id/events", scanH.Event)
			scan.PATCH("/:session_id", scanH.Edit)
			scan.POST("/:session_id/save", scanH.Save)
			scan.DELETE("/:session_id", scanH.Cancel)
		}

		reports := v1.Group("/reports", middleware.RequireRole("member", "admin"))
		{
			reports.GET("/expiring", reportsH.Expiring)
			reports.GET("/low-stock", reportsH.LowStock)
			reports.GET("/shopping-list.pdf", reportsH.ShoppingListPDF)
		}

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
