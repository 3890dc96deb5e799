package helpers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"accounts_backend/internal/auth"
	"accounts_backend/internal/handlers"
	"accounts_backend/internal/middleware"
	"accounts_backend/internal/models"
	"accounts_backend/internal/routes"
	"accounts_backend/internal/services"
	"accounts_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

// Порог энтропии как в конфигурации по умолчанию
const TestMinEntropy = 50

// TestEnv - полный стек приложения на in-memory репозиториях.
// Сборка повторяет app.SetupRouter, но без базы данных.
type TestEnv struct {
	Router    *gin.Engine
	Users     *FakeUserRepository
	Blacklist *FakeBlacklistedTokenRepository
	Tokens    *auth.TokenManager

	AuthService services.AuthService
	UserService services.UserService
}

func NewTestEnv() *TestEnv {
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	userRepo := NewFakeUserRepository()
	blacklistRepo := NewFakeBlacklistedTokenRepository()

	authService := services.NewAuthService(userRepo, blacklistRepo, tokens, TestMinEntropy)
	userService := services.NewUserService(userRepo, TestMinEntropy)

	baseHandler := handlers.NewBaseHandler(validator.New())
	appHandlers := &handlers.AppHandlers{
		AuthHandler: handlers.NewAuthHandler(baseHandler, authService),
		UserHandler: handlers.NewUserHandler(baseHandler, userService),
	}

	router := gin.New()
	routes.RegisterRoutes(
		router,
		appHandlers,
		middleware.AuthMiddleware(tokens),
		middleware.StaffMiddleware(userRepo),
	)

	return &TestEnv{
		Router:      router,
		Users:       userRepo,
		Blacklist:   blacklistRepo,
		Tokens:      tokens,
		AuthService: authService,
		UserService: userService,
	}
}

// DoJSON выполняет запрос с JSON телом. Пустой token - без авторизации,
// nil body - без тела.
func (e *TestEnv) DoJSON(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	e.Router.ServeHTTP(recorder, req)
	return recorder
}

// DecodeBody разбирает JSON тело ответа в out
func DecodeBody(t *testing.T, recorder *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response body %q: %v", recorder.Body.String(), err)
	}
}

// SeedUser создает аккаунт напрямую через репозиторий, минуя регистрацию
func (e *TestEnv) SeedUser(t *testing.T, email, username, password string, mutate func(*models.User)) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		Settings:     models.DefaultSettings(),
	}
	if mutate != nil {
		mutate(user)
	}

	if err := e.Users.Create(user); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

// LoginUser выполняет вход через HTTP и возвращает пару токенов
func (e *TestEnv) LoginUser(t *testing.T, email, password string) (access, refresh string) {
	t.Helper()

	recorder := e.DoJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, recorder.Code, recorder.Body.String())
	}

	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	DecodeBody(t, recorder, &resp)
	return resp.Access, resp.Refresh
}
