package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/notably/notes-saas/internal/api/handler"
	"github.com/notably/notes-saas/internal/api/middleware"
	"github.com/notably/notes-saas/internal/core/domain"
	"github.com/notably/notes-saas/internal/core/service"
	mongodb "github.com/notably/notes-saas/internal/infrastructure/db/mongo"
	"github.com/notably/notes-saas/internal/infrastructure/db/redis"
)

// Options carries the runtime settings the router needs.
type Options struct {
	JWTSecret       string
	TokenTTL        time.Duration
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *goredis.Client, log zerolog.Logger, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("notes"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	tenantRepo := mongodb.NewTenantRepository(db)
	noteRepo := mongodb.NewNoteRepository(db)

	authService := service.NewAuthService(userRepo, tenantRepo, opts.JWTSecret, opts.TokenTTL, log)
	noteService := service.NewNoteService(noteRepo, tenantRepo, log)
	tenantService := service.NewTenantService(tenantRepo, userRepo, log)

	loginLimiter := redis.NewLoginLimiter(rdb, opts.LoginRateLimit, opts.LoginRateWindow)

	authHandler := handler.NewAuthHandler(authService, loginLimiter, log)
	noteHandler := handler.NewNoteHandler(noteService)
	tenantHandler := handler.NewTenantHandler(tenantService)

	authenticated := middleware.Auth(authService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	sameTenant := middleware.RequireTenant()

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Note routes (any authenticated user, scoped to own tenant) ---
	notes := e.Group("/notes", authenticated)
	notes.POST("", noteHandler.Create)
	notes.GET("", noteHandler.List)
	notes.GET("/:id", noteHandler.Get)
	notes.PUT("/:id", noteHandler.Update)
	notes.DELETE("/:id", noteHandler.Delete)

	// --- Tenant routes (path slug must match the caller's tenant) ---
	tenants := e.Group("/tenants/:slug", authenticated, sameTenant)
	tenants.GET("", tenantHandler.Get)
	tenants.POST("/upgrade", tenantHandler.Upgrade, adminOnly)
	tenants.POST("/invite", tenantHandler.Invite, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
