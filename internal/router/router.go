package router

import (
	"time"

	"epunch/internal/authz"
	"epunch/internal/config"
	"epunch/internal/handler"
	"epunch/internal/infra"
	"epunch/internal/lock"
	"epunch/internal/middleware"
	"epunch/internal/repository"
	"epunch/internal/service"
	"epunch/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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
	googleClient := infra.NewGoogleClient(cfg)
	cardLocks := lock.NewRegistry()
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	merchantRepo := repository.NewMerchantRepository(db)
	programRepo := repository.NewProgramRepository(db)
	userRepo := repository.NewUserRepository(db)
	merchantUserRepo := repository.NewMerchantUserRepository(db)
	cardRepo := repository.NewPunchCardRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	tokenSvc := service.NewTokenService(googleClient, userRepo, merchantRepo, merchantUserRepo, cfg)
	policy := service.NewProgramPolicy(programRepo, rdb, time.Duration(cfg.PolicyCacheTTL)*time.Second)
	cardSvc := service.NewPunchCardService(cardRepo, programRepo, policy, cardLocks, dispatcher)
	scanSvc := service.NewScanService(cardSvc)
	programSvc := service.NewProgramService(programRepo)
	merchantUserSvc := service.NewMerchantUserService(merchantUserRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(tokenSvc)
	scanH := handler.NewScanHandler(scanSvc)
	programsH := handler.NewProgramsHandler(programSvc)
	merchantUsersH := handler.NewMerchantUsersHandler(merchantUserSvc)
	cardsH := handler.NewPunchCardsHandler(cardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	r.POST("/v1/auth/google", middleware.LoginRateLimiter(), authH.GoogleLogin)
	r.POST("/v1/merchant-users/login", middleware.LoginRateLimiter(), authH.MerchantLogin)

	// Protected routes
	authMW := middleware.Auth(tokenSvc)
	v1 := r.Group("/v1", authMW)
	{
		// Scan carries its own role logic: identity scans accept any
		// authenticated principal, redemption scans demand staff/admin.
		v1.POST("/scan", scanH.Scan)

		v1.GET("/punch-cards", cardsH.ListMine)
		v1.GET("/punch-cards/:id", cardsH.Get)

		// Programs — staff can read the catalog, admin writes
		v1.GET("/programs", middleware.RequireRole(authz.RoleStaff, authz.RoleAdmin), programsH.List)
		programs := v1.Group("/programs", middleware.RequireRole(authz.RoleAdmin))
		{
			programs.POST("", programsH.Create)
			programs.PUT("/:id", programsH.Update)
			programs.DELETE("/:id", programsH.Deactivate)
		}

		// Staff accounts — admin only
		staff := v1.Group("/merchant-users", middleware.RequireRole(authz.RoleAdmin))
		{
			staff.POST("", merchantUsersH.Create)
			staff.GET("", merchantUsersH.List)
			staff.PUT("/:id", merchantUsersH.Update)
			staff.DELETE("/:id", merchantUsersH.Deactivate)
			staff.PATCH("/:id/reactivate", merchantUsersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
