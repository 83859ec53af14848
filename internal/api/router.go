package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/labops/server-loans/internal/api/handler"
	"github.com/labops/server-loans/internal/api/middleware"
	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/service"
	"github.com/labops/server-loans/internal/infrastructure/config"
	pgrepo "github.com/labops/server-loans/internal/infrastructure/db/postgres"
	redisstore "github.com/labops/server-loans/internal/infrastructure/db/redis"
	"github.com/labops/server-loans/internal/web"
	"github.com/labops/server-loans/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) (*echo.Echo, error) {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("serverloans"))

	// --- Dependencies ---
	authRepo := pgrepo.NewAuthRepository(db)
	assetRepo := pgrepo.NewAssetRepository(db)
	loanRepo := pgrepo.NewLoanRepository(db)
	sessions := redisstore.NewSessionStore(rdb, cfg.Session.InactivityTimeout)

	authService := service.NewAuthService(authRepo, cfg.Auth.BcryptCost, log)
	assetService := service.NewAssetService(assetRepo, log)
	loanService := service.NewLoanService(loanRepo, assetRepo, log)

	sessionOpts := middleware.SessionOptions{
		InactivityTimeout: cfg.Session.InactivityTimeout,
		RotationInterval:  cfg.Session.RotationInterval,
		Secure:            cfg.Session.CookieSecure,
	}

	authHandler := handler.NewAuthHandler(authService, sessions, sessionOpts)
	dashboardHandler := handler.NewDashboardHandler(loanService)
	assetHandler := handler.NewAssetHandler(assetService)
	loanHandler := handler.NewLoanHandler(loanService, assetService)

	// --- Auth routes ---
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Protected pages ---
	// Both roles currently hold the same permissions; the role gate keeps
	// authorization separate from authentication.
	pages := e.Group("",
		middleware.Session(sessions, sessionOpts, log),
		middleware.RequireRole(domain.RoleAdmin, domain.RoleEngineer),
	)

	pages.GET("/", dashboardHandler.Index)

	pages.GET("/assets", assetHandler.List)
	pages.GET("/assets/new", assetHandler.NewPage)
	pages.POST("/assets/new", assetHandler.Create)
	pages.GET("/assets/:id/edit", assetHandler.EditPage)
	pages.POST("/assets/:id/edit", assetHandler.Update)
	pages.GET("/assets/:id/delete", assetHandler.DeletePage)
	pages.POST("/assets/:id/delete", assetHandler.Delete)

	pages.GET("/loans/active", loanHandler.Active)
	pages.GET("/loans/history", loanHandler.History)
	pages.GET("/loans/new", loanHandler.NewPage)
	pages.POST("/loans/new", loanHandler.Create)
	pages.GET("/loans/:id", loanHandler.View)
	pages.GET("/loans/:id/return", loanHandler.ReturnPage)
	pages.POST("/loans/:id/return", loanHandler.Return)
	pages.GET("/loans/:id/cancel", loanHandler.CancelPage)
	pages.POST("/loans/:id/cancel", loanHandler.Cancel)

	return e, nil
}
