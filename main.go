package main

import (
	"os"
	"time"

	"panpanocha/cmd"
	"panpanocha/internal/branches"
	"panpanocha/internal/config"
	"panpanocha/internal/core/logger"
	"panpanocha/internal/database"
	"panpanocha/internal/inventory"
	"panpanocha/internal/middleware"
	"panpanocha/internal/provisioning"
	"panpanocha/internal/repository"
	"panpanocha/internal/users"
	"panpanocha/pkg/auditlog"
	"panpanocha/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const sessionTTL = 30 * time.Minute

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	// Load .env before anything reads the environment; system variables win.
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, falling back to system environment variables")
	}

	if len(os.Args) > 1 {
		cmd.Execute()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error", zap.Error(err))
	}

	security.Configure(cfg.JWTSecret)
	middleware.SetBrand(cfg.Brand.ID)

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Database error", zap.Error(err))
	}
	defer db.Close()

	log.Info("Connected to the database", zap.String("brand", cfg.Brand.DisplayName))

	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo)

	thresholds := inventory.Thresholds{
		CriticalMax:  cfg.StockThresholds.CriticalMax,
		LowMax:       cfg.StockThresholds.LowMax,
		OverstockMin: cfg.StockThresholds.OverstockMin,
	}

	provisioningHandler := provisioning.NewHandler(repo, cfg.ProvisionSecret, auditLog, log)
	inventoryHandler := inventory.NewItemHandler(repo, thresholds, auditLog)
	usersHandler := users.NewHandler(users.NewUserRepository(repo))
	loginHandler := security.NewLoginHandler(repo)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware(log))

	router.GET("/health", middleware.HealthCheckHandler())
	loginHandler.RegisterRoutes(router)
	provisioningHandler.RegisterPublicRoutes(router)

	authenticated := router.Group("/")
	authenticated.Use(security.JWTMiddleware())
	{
		provisioningHandler.RegisterRoutes(authenticated)
		inventoryHandler.RegisterRoutes(authenticated)
		branches.RegisterRoutes(authenticated, repo)
		usersHandler.RegisterRoutes(authenticated)
	}

	go expireSessions(repo, log)

	if err := router.Run(cfg.AppHost); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}

// expireSessions sweeps undecided provisioning sessions past their TTL.
func expireSessions(repo *repository.Repository, log *zap.Logger) {
	sessionRepo := provisioning.NewSessionRepository(repo)
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := sessionRepo.DeleteExpired(sessionTTL)
		if err != nil {
			log.Warn("Session cleanup failed", zap.Error(err))
			continue
		}
		if removed > 0 {
			log.Info("Expired provisioning sessions removed", zap.Int64("count", removed))
		}
	}
}
