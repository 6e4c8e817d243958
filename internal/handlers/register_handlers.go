package handlers

import (
	"log/slog"

	"github.com/SscSPs/church_finance_app/cmd/docs"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/church_finance_app/internal/core/ports/services"
	"github.com/SscSPs/church_finance_app/internal/guard"
	"github.com/SscSPs/church_finance_app/internal/middleware"
	"github.com/SscSPs/church_finance_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// Role sets used by the route groups below.
var (
	writerRoles   = []domain.Role{domain.RoleAdmin, domain.RoleTreasurer}
	reporterRoles = []domain.Role{domain.RoleAdmin, domain.RoleTreasurer, domain.RolePastor}
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// sheetsLimiter may be nil, in which case the Sheets function is not rate limited.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	sheetsLimiter *limiter.Limiter,
) {
	registerCustomValidators()

	registerHealthRoutes(r)

	// Serverless-style functions live outside /api/v1 and carry their own CORS policy
	registerFunctionRoutes(r, services.Sheets, sheetsLimiter)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Anonymous callers get through authentication and are redirected by the
	// route guard, so they see the same payload as an expired session.
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, middleware.AllowAnonymous()))
	registerHomeRoutes(v1)

	church := v1.Group("/churches/:church_id", middleware.RequireChurchParam())

	// The session endpoint reports roles, it does not require any.
	registerSessionRoutes(church, services.Session)

	watch := watchChurch(services.Realtime)
	members := church.Group("", middleware.RequireRoles(services.Session, guard.ResolutionTimeout), watch)
	writers := church.Group("", middleware.RequireRoles(services.Session, guard.ResolutionTimeout, writerRoles...), watch)
	reporters := church.Group("", middleware.RequireRoles(services.Session, guard.ResolutionTimeout, reporterRoles...))

	registerTransactionRoutes(members, writers, services.Transaction)
	registerAlertRoutes(members, writers, services.Overdue, services.Reconciler)
	registerEventRoutes(members, services.Realtime)
	registerReportingRoutes(reporters, services.Reporting)
}

// watchChurch makes sure the church of an authorized request has a live
// change subscription, so cached reads are invalidated by writes from any
// instance. While the subscription cannot be set up the church's reads skip
// the cache, so a failure is only logged.
func watchChurch(realtimeSvc portssvc.RealtimeSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if realtimeSvc != nil {
			if err := realtimeSvc.Watch(c.Request.Context(), c.Param("church_id")); err != nil {
				middleware.GetLoggerFromContext(c).Warn("Failed to watch church changes", slog.String("error", err.Error()))
			}
		}
		c.Next()
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
