package handlers

import (
	"net/http"

	"accounts_backend/internal/appErrors"
	"accounts_backend/internal/services"
	"accounts_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// RegisterRoutes регистрирует маршруты профиля и управления аккаунтом
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	profile := rg.Group("")
	profile.Use(authMW)
	{
		profile.GET("/profile", h.GetProfile)
		profile.PUT("/profile", h.UpdateProfile)
		profile.PATCH("/profile", h.UpdateProfile)
		profile.POST("/change-password", h.ChangePassword)
		profile.DELETE("/delete-account", h.DeleteAccount)
	}
}

// RegisterAdminRoutes регистрирует staff-only маршруты
func (h *UserHandler) RegisterAdminRoutes(rg *gin.RouterGroup, authMW, staffMW gin.HandlerFunc) {
	admin := rg.Group("/users")
	admin.Use(authMW, staffMW)
	{
		admin.GET("", h.AdminListUsers)
		admin.PATCH("/:id/status", h.AdminSetUserStatus)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{User: user})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		User:    user,
		Message: "Profile updated successfully",
	})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed successfully",
	})
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	// Тело может отсутствовать целиком - это эквивалент пустого пароля
	var req dto.DeleteAccountRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.userService.DeleteAccount(userID, req.Password); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted successfully",
	})
}

func (h *UserHandler) AdminListUsers(c *gin.Context) {
	var filter dto.AdminUserFilter
	if !h.BindAndValidateQuery(c, &filter) {
		return
	}

	response, err := h.userService.ListUsers(&filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) AdminSetUserStatus(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		appErrors.HandleError(c, appErrors.NewBadRequestError("Missing required path parameter: id"))
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.userService.SetUserActive(userID, *req.IsActive); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User status updated",
	})
}
