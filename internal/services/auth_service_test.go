package services_test

import (
	"net/http"
	"testing"
	"time"

	"accounts_backend/internal/appErrors"
	"accounts_backend/internal/auth"
	"accounts_backend/internal/models"
	"accounts_backend/internal/services"
	"accounts_backend/internal/services/dto"
	"accounts_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "tr0ub4dor&3-horse"

func registerRequest(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     email,
		Password:  strongPassword,
		Password2: strongPassword,
		FirstName: "Ann",
		LastName:  "Lee",
	}
}

func requireAppError(t *testing.T, err error) *appErrors.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr
}

func TestAuthService_Register(t *testing.T) {
	env := helpers.NewTestEnv()

	resp, err := env.AuthService.Register(registerRequest("ann@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "ann@example.com", resp.User.Email)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)

	// Сохраненный аккаунт: хеш вместо пароля, username из локальной части
	stored, err := env.Users.FindByEmail("ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ann", stored.Username)
	assert.NotEqual(t, strongPassword, stored.PasswordHash)
	assert.True(t, auth.CheckPasswordHash(strongPassword, stored.PasswordHash))
	assert.True(t, stored.IsActive)
	assert.False(t, stored.IsStaff)

	// Настройки по умолчанию
	assert.Equal(t, "system", resp.User.ThemeMode)
	assert.Equal(t, "blue", resp.User.AccentColor)
	assert.Equal(t, 14, resp.User.FontSize)
	assert.Equal(t, "daily", resp.User.DigestFrequency)
	assert.Equal(t, "21:00", resp.User.DNDStartTime)
	assert.Equal(t, "07:00", resp.User.DNDEndTime)

	// Выданные токены имеют правильные типы и указывают на аккаунт
	accessClaims, err := env.Tokens.ParseToken(resp.Access)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenTypeAccess, accessClaims.TokenType)
	assert.Equal(t, stored.ID, accessClaims.Subject)

	refreshClaims, err := env.Tokens.ParseToken(resp.Refresh)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenTypeRefresh, refreshClaims.TokenType)
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	env := helpers.NewTestEnv()

	req := registerRequest("ann@example.com")
	req.Password2 = "different-password-9"

	_, err := env.AuthService.Register(req)
	appErr := requireAppError(t, err)

	assert.Equal(t, appErrors.CodeValidationFailed, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "password")
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	env := helpers.NewTestEnv()

	req := registerRequest("ann@example.com")
	req.Password = "abc"
	req.Password2 = "abc"

	_, err := env.AuthService.Register(req)
	appErr := requireAppError(t, err)

	assert.Equal(t, appErrors.CodeWeakPassword, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "password")
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	env := helpers.NewTestEnv()

	_, err := env.AuthService.Register(registerRequest("ann@example.com"))
	require.NoError(t, err)

	_, err = env.AuthService.Register(registerRequest("ann@example.com"))
	appErr := requireAppError(t, err)

	assert.Equal(t, appErrors.CodeEmailAlreadyExists, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details["email"], "already registered")
}

// blindEmailCheckRepo имитирует гонку двух регистраций: кооперативная
// проверка email ничего не видит, и дубликат ловит только constraint
// на вставке.
type blindEmailCheckRepo struct {
	*helpers.FakeUserRepository
}

func (r *blindEmailCheckRepo) EmailExists(email, excludeUserID string) (bool, error) {
	return false, nil
}

func TestAuthService_Register_DuplicateEmailRace(t *testing.T) {
	env := helpers.NewTestEnv()
	racyRepo := &blindEmailCheckRepo{FakeUserRepository: env.Users}
	authService := services.NewAuthService(racyRepo, env.Blacklist, env.Tokens, helpers.TestMinEntropy)

	_, err := authService.Register(registerRequest("ann@example.com"))
	require.NoError(t, err)

	_, err = authService.Register(registerRequest("ann@example.com"))
	appErr := requireAppError(t, err)

	assert.Equal(t, appErrors.CodeEmailAlreadyExists, appErr.Code)
}

func TestAuthService_Register_UsernameCollisionGetsSuffix(t *testing.T) {
	env := helpers.NewTestEnv()

	_, err := env.AuthService.Register(registerRequest("ann@example.com"))
	require.NoError(t, err)
	_, err = env.AuthService.Register(registerRequest("ann@other.com"))
	require.NoError(t, err)
	_, err = env.AuthService.Register(registerRequest("ann@third.com"))
	require.NoError(t, err)

	first, err := env.Users.FindByEmail("ann@example.com")
	require.NoError(t, err)
	second, err := env.Users.FindByEmail("ann@other.com")
	require.NoError(t, err)
	third, err := env.Users.FindByEmail("ann@third.com")
	require.NoError(t, err)

	assert.Equal(t, "ann", first.Username)
	assert.Equal(t, "ann1", second.Username)
	assert.Equal(t, "ann2", third.Username)
}

func TestAuthService_Login(t *testing.T) {
	env := helpers.NewTestEnv()
	seeded := env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)
	require.Nil(t, seeded.LastLogin)

	resp, err := env.AuthService.Login(&dto.LoginRequest{
		Email:    "ann@example.com",
		Password: strongPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, seeded.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)

	// Успешный вход фиксирует время последнего входа
	updated, err := env.Users.FindByID(seeded.ID)
	require.NoError(t, err)
	assert.NotNil(t, updated.LastLogin)
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	env := helpers.NewTestEnv()
	env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)
	env.SeedUser(t, "off@example.com", "off", strongPassword, func(u *models.User) {
		u.IsActive = false
	})

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"неизвестный email", "ghost@example.com", strongPassword},
		{"неверный пароль", "ann@example.com", "wrong-password-99"},
		{"неактивный аккаунт", "off@example.com", strongPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.AuthService.Login(&dto.LoginRequest{Email: tt.email, Password: tt.pass})
			appErr := requireAppError(t, err)

			// Все три причины дают один и тот же ответ
			assert.Equal(t, appErrors.CodeInvalidCredentials, appErr.Code)
			assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
			assert.Equal(t, "Invalid credentials", appErr.Message)
			assert.Nil(t, appErr.Details)
		})
	}
}

func TestAuthService_Login_MissingCredentials(t *testing.T) {
	env := helpers.NewTestEnv()

	for _, req := range []*dto.LoginRequest{
		{Email: "", Password: "x"},
		{Email: "ann@example.com", Password: ""},
		{},
	} {
		_, err := env.AuthService.Login(req)
		appErr := requireAppError(t, err)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
		assert.Equal(t, "Please provide both email and password", appErr.Message)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	env := helpers.NewTestEnv()
	seeded := env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)

	refresh, err := env.Tokens.GenerateRefreshToken(seeded.ID)
	require.NoError(t, err)

	resp, err := env.AuthService.Refresh(refresh)
	require.NoError(t, err)

	claims, err := env.Tokens.ParseToken(resp.Access)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, seeded.ID, claims.Subject)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	env := helpers.NewTestEnv()
	seeded := env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)

	access, err := env.Tokens.GenerateAccessToken(seeded.ID)
	require.NoError(t, err)

	_, err = env.AuthService.Refresh(access)
	appErr := requireAppError(t, err)
	assert.Equal(t, appErrors.CodeInvalidToken, appErr.Code)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
}

func TestAuthService_Refresh_RejectsInactiveAccount(t *testing.T) {
	env := helpers.NewTestEnv()
	seeded := env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)

	refresh, err := env.Tokens.GenerateRefreshToken(seeded.ID)
	require.NoError(t, err)

	require.NoError(t, env.Users.SetActive(seeded.ID, false))

	_, err = env.AuthService.Refresh(refresh)
	appErr := requireAppError(t, err)
	assert.Equal(t, appErrors.CodeInvalidToken, appErr.Code)
}

func TestAuthService_LogoutBlacklistsRefreshToken(t *testing.T) {
	env := helpers.NewTestEnv()
	seeded := env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)

	refresh, err := env.Tokens.GenerateRefreshToken(seeded.ID)
	require.NoError(t, err)

	// До logout токен работает
	_, err = env.AuthService.Refresh(refresh)
	require.NoError(t, err)

	require.NoError(t, env.AuthService.Logout(refresh))

	// После - отклоняется
	_, err = env.AuthService.Refresh(refresh)
	appErr := requireAppError(t, err)
	assert.Equal(t, appErrors.CodeInvalidToken, appErr.Code)

	// Повторный logout того же токена - успех
	require.NoError(t, env.AuthService.Logout(refresh))

	// Другие refresh токены аккаунта не задеты
	other, err := env.Tokens.GenerateRefreshToken(seeded.ID)
	require.NoError(t, err)
	_, err = env.AuthService.Refresh(other)
	assert.NoError(t, err)
}

func TestAuthService_Logout_EmptyTokenIsNoOp(t *testing.T) {
	env := helpers.NewTestEnv()
	assert.NoError(t, env.AuthService.Logout(""))
}

func TestAuthService_Logout_RejectsGarbageAndAccessTokens(t *testing.T) {
	env := helpers.NewTestEnv()
	seeded := env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)

	access, err := env.Tokens.GenerateAccessToken(seeded.ID)
	require.NoError(t, err)

	for _, token := range []string{"garbage", access} {
		err := env.AuthService.Logout(token)
		appErr := requireAppError(t, err)
		assert.Equal(t, appErrors.CodeInvalidToken, appErr.Code)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	}
}

func TestAuthService_Logout_PurgesExpiredEntries(t *testing.T) {
	env := helpers.NewTestEnv()
	seeded := env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)

	// Истекшая запись в блэклисте
	require.NoError(t, env.Blacklist.Add(&models.BlacklistedToken{
		JTI:       "stale-jti",
		UserID:    seeded.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	refresh, err := env.Tokens.GenerateRefreshToken(seeded.ID)
	require.NoError(t, err)
	require.NoError(t, env.AuthService.Logout(refresh))

	// Попутная очистка удалила истекшую запись
	stale, err := env.Blacklist.IsBlacklisted("stale-jti")
	require.NoError(t, err)
	assert.False(t, stale)
}
