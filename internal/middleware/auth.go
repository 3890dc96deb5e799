package middleware

import (
	"net/http"
	"strings"

	"accounts_backend/internal/auth"
	"accounts_backend/internal/logger"
	"accounts_backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT.
// Принимается только access token; refresh в заголовке Authorization
// не дает доступа к защищенным маршрутам.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ParseToken(tokenStr)
		if err != nil || claims.TokenType != auth.TokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// Сохраняем идентификатор в контекст запроса
		c.Set("userID", claims.Subject)
		ctx := logger.WithUserID(c.Request.Context(), claims.Subject)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// StaffMiddleware пускает дальше только staff-аккаунты.
// Флаг проверяется по базе, а не по claims: отзыв staff-прав
// действует немедленно, не дожидаясь истечения токена.
func StaffMiddleware(userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := userRepo.FindByID(userID)
		if err != nil || !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: staff only"})
			return
		}

		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}
