package app

import (
	"fmt"
	"time"

	"accounts_backend/database"
	"accounts_backend/internal/auth"
	"accounts_backend/internal/config"
	"accounts_backend/internal/handlers"
	"accounts_backend/internal/logger"
	"accounts_backend/internal/middleware"
	"accounts_backend/internal/repositories"
	"accounts_backend/internal/routes"
	"accounts_backend/internal/services"
	"accounts_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает репозитории, сервисы и обработчики в готовый роутер
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	tokens := auth.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTTL)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTL)*time.Hour,
	)

	// Репозитории
	userRepo := repositories.NewUserRepository(gormDB)
	blacklistRepo := repositories.NewBlacklistedTokenRepository(gormDB)

	// Сервисы
	serviceContainer := &services.ServiceContainer{
		AuthService: services.NewAuthService(userRepo, blacklistRepo, tokens, cfg.Password.MinEntropy),
		UserService: services.NewUserService(userRepo, cfg.Password.MinEntropy),
	}

	// Обработчики
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	appHandlers := &handlers.AppHandlers{
		AuthHandler: handlers.NewAuthHandler(baseHandler, serviceContainer.AuthService),
		UserHandler: handlers.NewUserHandler(baseHandler, serviceContainer.UserService),
	}

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(
		ginRouter,
		appHandlers,
		middleware.AuthMiddleware(tokens),
		middleware.StaffMiddleware(userRepo),
	)

	return ginRouter
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())

	return router
}
