package services

import (
	"fmt"
	"net/http"
	"strings"

	"accounts_backend/internal/appErrors"
	"accounts_backend/internal/auth"
	"accounts_backend/internal/logger"
	"accounts_backend/internal/models"
	"accounts_backend/internal/repositories"
	"accounts_backend/internal/services/dto"
)

const (
	msgPasswordsDoNotMatch = "The passwords you entered do not match. Please make sure both password fields are identical."
	msgEmailRegistered     = "This email address is already registered. Please use a different email address."
	msgMissingCredentials  = "Please provide both email and password"
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(refreshToken string) (*dto.RefreshResponse, error)
	Logout(refreshToken string) error
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	blacklistRepo repositories.BlacklistedTokenRepository
	tokens        *auth.TokenManager
	minEntropy    float64
}

func NewAuthService(
	userRepo repositories.UserRepository,
	blacklistRepo repositories.BlacklistedTokenRepository,
	tokens *auth.TokenManager,
	minEntropy float64,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		blacklistRepo: blacklistRepo,
		tokens:        tokens,
		minEntropy:    minEntropy,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Password != req.Password2 {
		return nil, appErrors.FieldError("password", msgPasswordsDoNotMatch)
	}

	if err := auth.ValidatePassword(req.Password, s.minEntropy); err != nil {
		return nil, appErrors.ErrWeakPassword.WithDetails(map[string]string{
			"password": err.Error(),
		})
	}

	// Кооперативная проверка: дает именованную ошибку поля до записи.
	// Гонку двух одновременных регистраций разрешает unique constraint
	// базы, см. обработку ошибки Create ниже.
	exists, err := s.userRepo.EmailExists(req.Email, "")
	if err != nil {
		return nil, appErrors.InternalError(err)
	}
	if exists {
		return nil, appErrors.ErrEmailAlreadyExists.WithDetails(map[string]string{
			"email": msgEmailRegistered,
		})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	user, err := s.createWithDerivedUsername(req, hash)
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.AuthResponse{
		User:    dto.NewUserResponse(user),
		Access:  access,
		Refresh: refresh,
		Message: "User registered successfully",
	}, nil
}

// createWithDerivedUsername создает аккаунт, выводя username из email.
// Коллизию username при одновременной регистрации разрешаем повторным
// выводом; коллизия email - всегда дубликат.
func (s *AuthServiceImpl) createWithDerivedUsername(req *dto.RegisterRequest, hash string) (*models.User, error) {
	for attempt := 0; attempt < 3; attempt++ {
		username, err := s.deriveUsername(req.Email)
		if err != nil {
			return nil, appErrors.InternalError(err)
		}

		user := &models.User{
			Email:        req.Email,
			Username:     username,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			IsActive:     true,
			Settings:     models.DefaultSettings(),
		}

		err = s.userRepo.Create(user)
		if err == nil {
			return user, nil
		}
		if appErrors.Is(err, repositories.ErrEmailTaken) {
			return nil, appErrors.ErrEmailAlreadyExists.WithDetails(map[string]string{
				"email": msgEmailRegistered,
			})
		}
		if appErrors.Is(err, repositories.ErrUsernameTaken) {
			continue
		}
		return nil, appErrors.InternalError(err)
	}
	return nil, appErrors.InternalError(fmt.Errorf("could not allocate unique username for %s", req.Email))
}

// deriveUsername берет локальную часть email; при занятости добавляет
// возрастающий числовой суффикс до первого свободного.
func (s *AuthServiceImpl) deriveUsername(email string) (string, error) {
	base := strings.SplitN(email, "@", 2)[0]
	username := base

	for counter := 1; ; counter++ {
		taken, err := s.userRepo.UsernameExists(username)
		if err != nil {
			return "", err
		}
		if !taken {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, counter)
	}
}

// Login - аутентификация пользователя.
// Неизвестный email, неверный пароль и неактивный аккаунт дают
// один и тот же ответ - причину отказа наружу не раскрываем.
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, appErrors.NewBadRequestError(msgMissingCredentials)
	}

	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, appErrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Warn("failed to update last_login", "user_id", user.ID, "error", err)
	}

	access, refresh, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.AuthResponse{
		User:    dto.NewUserResponse(user),
		Access:  access,
		Refresh: refresh,
		Message: "Login successful",
	}, nil
}

// Refresh - обмен refresh token на новый access token.
// Ротация не выполняется: refresh остается действительным до истечения
// срока или logout.
func (s *AuthServiceImpl) Refresh(refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := s.tokens.ParseToken(refreshToken)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		return nil, appErrors.ErrInvalidToken
	}

	blacklisted, err := s.blacklistRepo.IsBlacklisted(claims.ID)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}
	if blacklisted {
		return nil, appErrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.Subject)
	if err != nil || !user.IsActive {
		return nil, appErrors.ErrInvalidToken
	}

	access, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.RefreshResponse{Access: access}, nil
}

// Logout - отзыв refresh token через блэклист по jti.
// Пустой токен - no-op успех; повторный logout того же токена тоже.
func (s *AuthServiceImpl) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.tokens.ParseToken(refreshToken)
	if err != nil || claims.TokenType != auth.TokenTypeRefresh {
		return appErrors.New(appErrors.CodeInvalidToken, "Invalid token", http.StatusBadRequest)
	}

	entry := &models.BlacklistedToken{
		JTI:       claims.ID,
		UserID:    claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.blacklistRepo.Add(entry); err != nil {
		return appErrors.InternalError(err)
	}

	// Попутная очистка истекших записей; ошибка не мешает logout
	if err := s.blacklistRepo.PurgeExpired(); err != nil {
		logger.Warn("failed to purge expired blacklist entries", "error", err)
	}

	return nil
}

func (s *AuthServiceImpl) issueTokenPair(userID string) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(userID)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
