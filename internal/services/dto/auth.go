package dto

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest - запрос входа. Отсутствие полей проверяется в сервисе,
// чтобы вернуть 400 с конкретным сообщением, а не карту валидации.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest - запрос обновления access token
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// LogoutRequest - запрос выхода. Отсутствующий refresh - no-op успех.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// ChangePasswordRequest - запрос смены пароля
type ChangePasswordRequest struct {
	OldPassword  string `json:"old_password" validate:"required"`
	NewPassword  string `json:"new_password" validate:"required"`
	NewPassword2 string `json:"new_password2" validate:"required"`
}

// DeleteAccountRequest - запрос удаления аккаунта
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// AuthResponse - ответ с парой токенов и публичным профилем
type AuthResponse struct {
	User    *UserResponse `json:"user"`
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	Message string        `json:"message,omitempty"`
}

// RefreshResponse - новый access token
type RefreshResponse struct {
	Access string `json:"access"`
}
