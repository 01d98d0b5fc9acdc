// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	appctx "onghub/internal/core/context"
	"onghub/internal/infrastructure/http/v1/handlers"
	"onghub/internal/infrastructure/http/v1/middleware"
	"onghub/internal/infrastructure/metrics"
	"onghub/pkg/logger"
)

// RouterConfig holds the collaborators of every route. Construction happens
// in cmd/server.
type RouterConfig struct {
	// Mode is the gin mode (gin.ReleaseMode, gin.DebugMode, gin.TestMode).
	Mode string

	// Logger for request logging
	Logger *logger.Logger

	// TokenValidator validates bearer tokens
	TokenValidator middleware.TokenValidator

	Organizations handlers.OrganizationService
	Applications  handlers.ApplicationService
	Feedback      handlers.FeedbackService
	Nomenclature  handlers.NomenclatureService

	// HealthChecks are pinged by /health/ready
	HealthChecks []handlers.HealthCheck
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	mode := cfg.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks...)
	router.GET("/health", healthHandler.Health)
	router.GET("/version", healthHandler.Version)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	{
		// Public endpoints
		registerNomenclatureRoutes(api.Group("/nomenclatures"), handlers.NewNomenclatureHandler(cfg.Nomenclature))
		feedbackHandler := handlers.NewFeedbackHandler(cfg.Feedback)
		api.POST("/feedback", feedbackHandler.Create)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.TokenValidator))

		registerOrganizationRoutes(protected, cfg)
		registerApplicationRoutes(protected, cfg)
		registerFeedbackRoutes(protected, feedbackHandler)
	}

	return router
}

var (
	superAdmin = middleware.RequireRole(appctx.RoleSuperAdmin)
	admins     = middleware.RequireRole(appctx.RoleSuperAdmin, appctx.RoleAdmin)
	orgAccess  = middleware.RequireOrgAccess("id")
)

func registerOrganizationRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	h := handlers.NewOrganizationHandler(cfg.Organizations)

	orgs := rg.Group("/organizations")
	orgs.POST("", superAdmin, h.Create)
	orgs.GET("/:id", orgAccess, h.Get)
	orgs.PATCH("/:id", admins, orgAccess, h.Update)
	orgs.GET("/:id/history", admins, orgAccess, h.History)

	profile := rg.Group("/organization-profile")
	profile.GET("", h.GetProfile)
	profile.PATCH("", admins, h.UpdateProfile)
}

func registerApplicationRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	h := handlers.NewApplicationHandler(cfg.Applications)

	apps := rg.Group("/applications")
	apps.GET("", h.List)
	apps.POST("", superAdmin, h.Create)
	apps.GET("/:id", h.Get)
	apps.PATCH("/:id", superAdmin, h.Update)

	ong := rg.Group("/organizations/:id/applications", orgAccess)
	ong.GET("", h.ListForOrganization)
	ong.GET("/:appId", h.GetForOrganization)
	ong.POST("/:appId/request", admins, h.RequestAccess)
	ong.PATCH("/:appId/status", superAdmin, h.SetStatus)
}

func registerFeedbackRoutes(rg *gin.RouterGroup, h *handlers.FeedbackHandler) {
	rg.GET("/organizations/:id/feedback", orgAccess, h.ListForOrganization)
	rg.GET("/feedback/:id", admins, h.Get)
	rg.DELETE("/feedback/:id", admins, h.Delete)
}
