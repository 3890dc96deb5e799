package routes

import (
	"accounts_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты приложения
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMW gin.HandlerFunc,
	staffMW gin.HandlerFunc,
) {
	// Аутентификация, профиль и управление аккаунтом
	api := ginRouter.Group("/api/auth")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, authMW)
		appHandlers.UserHandler.RegisterRoutes(api, authMW)
	}

	// Администрирование (только staff)
	admin := ginRouter.Group("/api/admin")
	{
		appHandlers.UserHandler.RegisterAdminRoutes(admin, authMW, staffMW)
	}
}
