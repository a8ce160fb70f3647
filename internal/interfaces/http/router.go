package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/infrastructure/metrics"
	"github.com/sortwise/sessiond/internal/interfaces/http/handlers"
	"github.com/sortwise/sessiond/internal/interfaces/http/middleware"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine               *gin.Engine
	authHandler          *handlers.AuthHandler
	adminSessionHandler  *handlers.AdminSessionHandler
	healthHandler        *handlers.HealthHandler
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	httpMetrics          *metrics.HTTPMetrics
	gatherer             prometheus.Gatherer
	allowedOrigins       []string
	logger               logger.Interface
}

// RouterDeps are the collaborators the routes are served by.
type RouterDeps struct {
	Accounts       handlers.AccountService
	Sessions       handlers.SessionService
	Store          handlers.Pinger
	AccountLoader  middleware.AccountLoader
	Enforcer       account.PermissionEnforcer
	HTTPMetrics    *metrics.HTTPMetrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	Logger         logger.Interface
}

func NewRouter(deps RouterDeps) *Router {
	engine := gin.New()

	return &Router{
		engine:               engine,
		authHandler:          handlers.NewAuthHandler(deps.Accounts, deps.Sessions, deps.Logger),
		adminSessionHandler:  handlers.NewAdminSessionHandler(deps.Sessions, deps.Logger),
		healthHandler:        handlers.NewHealthHandler(deps.Store, deps.Logger),
		authMiddleware:       middleware.NewAuthMiddleware(deps.Sessions, deps.Logger),
		permissionMiddleware: middleware.NewPermissionMiddleware(deps.AccountLoader, deps.Enforcer, deps.Logger),
		httpMetrics:          deps.HTTPMetrics,
		gatherer:             deps.Gatherer,
		allowedOrigins:       deps.AllowedOrigins,
		logger:               deps.Logger,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.RequestLogger(r.logger))
	r.engine.Use(middleware.Recovery())
	if r.httpMetrics != nil {
		r.engine.Use(middleware.Metrics(r.httpMetrics))
	}
	r.engine.Use(middleware.CORS(r.allowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.ErrorHandler())

	r.engine.GET("/health", r.healthHandler.Health)
	if r.gatherer != nil {
		r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	api := r.engine.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", r.authHandler.Login)

		authenticated := auth.Group("")
		authenticated.Use(r.authMiddleware.RequireAuth())
		authenticated.POST("/logout", r.authHandler.Logout)
		authenticated.GET("/me", r.authHandler.Me)
		authenticated.GET("/session", r.authHandler.Session)
	}

	admin := api.Group("/admin/sessions")
	admin.Use(r.authMiddleware.RequireAuth())
	{
		admin.GET("/online",
			r.permissionMiddleware.RequirePermission(account.ResourceSessions, account.ActionRead),
			r.adminSessionHandler.ListOnline)
		admin.GET("/online/count",
			r.permissionMiddleware.RequirePermission(account.ResourceSessions, account.ActionRead),
			r.adminSessionHandler.CountOnline)
		admin.DELETE("/:account_id",
			r.permissionMiddleware.RequirePermission(account.ResourceSessions, account.ActionKick),
			r.adminSessionHandler.ForceLogout)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
