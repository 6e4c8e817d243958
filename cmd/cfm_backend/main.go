package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SscSPs/church_finance_app/internal/cache"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/church_finance_app/internal/core/services"
	"github.com/SscSPs/church_finance_app/internal/handlers"
	"github.com/SscSPs/church_finance_app/internal/middleware"
	"github.com/SscSPs/church_finance_app/internal/platform/config"
	"github.com/SscSPs/church_finance_app/internal/realtime"
	"github.com/SscSPs/church_finance_app/internal/repositories/database/memory"
	"github.com/SscSPs/church_finance_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/church_finance_app/internal/utils"
	"github.com/SscSPs/church_finance_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

const (
	migrationsPath  = "file://migrations"
	shutdownTimeout = 15 * time.Second
	demoChurchID    = "00000000-0000-4000-8000-000000000001"
)

// @title Church Finance Backend API
// @version 1.0
// @description Transactions, overdue alerts, reports and realtime notices for church finances.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	queryCache, err := cache.New(cfg.CacheSize)
	if err != nil {
		logger.Error("Failed to create query cache", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry, err := realtime.NewRegistry(repos.ChangeFeed, queryCache, realtime.NewHub(), cfg.MaxWatchedTenants, logger)
	if err != nil {
		logger.Error("Failed to create realtime registry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer, err := services.NewServiceContainer(cfg, repos, queryCache, registry)
	if err != nil {
		logger.Error("Failed to create services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sheetsRate, err := limiter.NewRateFromFormatted(cfg.SheetsRateLimit)
	if err != nil {
		logger.Error("Invalid SHEETS_RATE_LIMIT", slog.String("value", cfg.SheetsRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	sheetsLimiter := limiter.New(limitermemory.NewStore(), sheetsRate)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (CORS, logging, recovery, analytics)
	r.Use(
		apiCORS(cfg),
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.PosthogMiddleware(posthogClient),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, sheetsLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	// Subscriptions hold dedicated connections; release them before the pool closes.
	registry.Close()
	if reconciler, ok := serviceContainer.Reconciler.(*services.Reconciler); ok {
		reconciler.Wait()
	}
	logger.Info("Server stopped")
}

// apiCORS restricts the API to the configured origins. The functions group
// applies its own open policy and must not be rejected here first.
func apiCORS(cfg *config.Config) gin.HandlerFunc {
	restricted := cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, handlers.FunctionsPrefix+"/") {
			c.Next()
			return
		}
		restricted(c)
	}
}

// openStorage builds the repositories for the configured driver and returns
// a function releasing its resources.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		store := memory.NewStore()
		if cfg.DevSeedUserID != "" && !cfg.IsProduction {
			seedDemoChurch(ctx, store, cfg, logger)
		}
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewRepositoryProvider(store), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if err := database.RunMigrations(cfg.DatabaseURL, migrationsPath, logger); err != nil {
		database.ClosePgxPool(dbPool, logger)
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool, logger) }, nil
}

// seedDemoChurch gives the configured user admin on a demo church and logs a
// session token for it, so the API can be exercised without a login flow.
func seedDemoChurch(ctx context.Context, store *memory.Store, cfg *config.Config, logger *slog.Logger) {
	now := time.Now().UTC()
	store.AddChurch(domain.Church{
		ChurchID: demoChurchID,
		Name:     "Igreja Demo",
		Timezone: cfg.DefaultTimezone,
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: cfg.DevSeedUserID,
			LastUpdatedAt: now, LastUpdatedBy: cfg.DevSeedUserID,
		},
	})
	repos := memory.NewRepositoryProvider(store)
	if err := repos.RoleRepo.AssignRole(ctx, domain.RoleAssignment{
		UserID: cfg.DevSeedUserID, ChurchID: demoChurchID, Role: domain.RoleAdmin,
	}); err != nil {
		logger.Error("Failed to seed demo role", slog.String("error", err.Error()))
		return
	}

	token, err := utils.GenerateSessionJWT(cfg.DevSeedUserID, "", cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to issue demo token", slog.String("error", err.Error()))
		return
	}
	logger.Info("Seeded demo church",
		slog.String("church_id", demoChurchID),
		slog.String("user_id", cfg.DevSeedUserID),
		slog.String("token", token))
}
