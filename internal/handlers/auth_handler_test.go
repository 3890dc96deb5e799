package handlers_test

import (
	"net/http"
	"testing"

	"accounts_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "tr0ub4dor&3-horse"

// errorBody - форма ответа об ошибке уровня приложения
type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type authBody struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Message string `json:"message"`
}

func registerPayload(email string) map[string]string {
	return map[string]string{
		"email":      email,
		"password":   strongPassword,
		"password2":  strongPassword,
		"first_name": "Ann",
		"last_name":  "Lee",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	env := helpers.NewTestEnv()

	recorder := env.DoJSON(t, http.MethodPost, "/api/auth/register", registerPayload("ann@example.com"), "")
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var resp authBody
	helpers.DecodeBody(t, recorder, &resp)
	assert.Equal(t, "ann@example.com", resp.User.Email)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)

	// Хеш и служебные поля в ответ не попадают
	assert.NotContains(t, recorder.Body.String(), "password")
	assert.NotContains(t, recorder.Body.String(), "is_staff")
}

func TestRegisterEndpoint_ValidationErrors(t *testing.T) {
	env := helpers.NewTestEnv()

	recorder := env.DoJSON(t, http.MethodPost, "/api/auth/register", map[string]string{}, "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp errorBody
	helpers.DecodeBody(t, recorder, &resp)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "email")
	assert.Contains(t, resp.Error.Details, "password")
	assert.Contains(t, resp.Error.Details, "password2")
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	env := helpers.NewTestEnv()

	first := env.DoJSON(t, http.MethodPost, "/api/auth/register", registerPayload("ann@example.com"), "")
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.DoJSON(t, http.MethodPost, "/api/auth/register", registerPayload("ann@example.com"), "")
	require.Equal(t, http.StatusBadRequest, second.Code)

	var resp errorBody
	helpers.DecodeBody(t, second, &resp)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", resp.Error.Code)
	assert.Contains(t, resp.Error.Details["email"], "already registered")
}

func TestLoginEndpoint(t *testing.T) {
	env := helpers.NewTestEnv()
	env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)

	recorder := env.DoJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ann@example.com",
		"password": strongPassword,
	}, "")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp authBody
	helpers.DecodeBody(t, recorder, &resp)
	assert.Equal(t, "Login successful", resp.Message)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	env := helpers.NewTestEnv()
	env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)

	recorder := env.DoJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ann@example.com",
		"password": "wrong-password-99",
	}, "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	var resp errorBody
	helpers.DecodeBody(t, recorder, &resp)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	assert.Equal(t, "Invalid credentials", resp.Error.Message)
}

func TestLoginEndpoint_MissingFields(t *testing.T) {
	env := helpers.NewTestEnv()

	recorder := env.DoJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ann@example.com",
	}, "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp errorBody
	helpers.DecodeBody(t, recorder, &resp)
	assert.Equal(t, "Please provide both email and password", resp.Error.Message)
}

func TestRefreshEndpoint(t *testing.T) {
	env := helpers.NewTestEnv()
	env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)
	_, refresh := env.LoginUser(t, "ann@example.com", strongPassword)

	recorder := env.DoJSON(t, http.MethodPost, "/api/auth/token/refresh", map[string]string{
		"refresh": refresh,
	}, "")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp struct {
		Access string `json:"access"`
	}
	helpers.DecodeBody(t, recorder, &resp)
	assert.NotEmpty(t, resp.Access)
}

func TestRefreshEndpoint_MissingToken(t *testing.T) {
	env := helpers.NewTestEnv()

	recorder := env.DoJSON(t, http.MethodPost, "/api/auth/token/refresh", map[string]string{}, "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp errorBody
	helpers.DecodeBody(t, recorder, &resp)
	assert.Contains(t, resp.Error.Details, "refresh")
}

func TestLogoutEndpoint_RequiresAuthentication(t *testing.T) {
	env := helpers.NewTestEnv()

	recorder := env.DoJSON(t, http.MethodPost, "/api/auth/logout", map[string]string{}, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestLogoutEndpoint_InvalidatesRefreshToken(t *testing.T) {
	env := helpers.NewTestEnv()
	env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)
	access, refresh := env.LoginUser(t, "ann@example.com", strongPassword)

	recorder := env.DoJSON(t, http.MethodPost, "/api/auth/logout", map[string]string{
		"refresh": refresh,
	}, access)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	// Отозванный refresh больше не обменивается
	recorder = env.DoJSON(t, http.MethodPost, "/api/auth/token/refresh", map[string]string{
		"refresh": refresh,
	}, "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	var resp errorBody
	helpers.DecodeBody(t, recorder, &resp)
	assert.Equal(t, "INVALID_TOKEN", resp.Error.Code)

	// Access token остается валидным до истечения срока
	recorder = env.DoJSON(t, http.MethodGet, "/api/auth/profile", nil, access)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestProtectedRoutes_RejectRefreshTokenAsBearer(t *testing.T) {
	env := helpers.NewTestEnv()
	env.SeedUser(t, "ann@example.com", "ann", strongPassword, nil)
	_, refresh := env.LoginUser(t, "ann@example.com", strongPassword)

	recorder := env.DoJSON(t, http.MethodGet, "/api/auth/profile", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
